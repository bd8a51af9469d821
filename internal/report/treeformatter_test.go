package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeFormatter_SingleRoot(t *testing.T) {
	f := NewTreeFormatter()
	f.AddLine(0, "root")
	require.Equal(t, "└── root", f.String())
}

func TestTreeFormatter_SimpleTree(t *testing.T) {
	f := NewTreeFormatter()
	f.AddLine(0, "root")
	f.AddLine(1, "child1")
	f.AddLine(1, "child2")
	require.Equal(t, "└── root\n    ├── child1\n    └── child2", f.String())
}

func TestTreeFormatter_NestedTree(t *testing.T) {
	f := NewTreeFormatter()
	f.AddLine(0, "root")
	f.AddLine(1, "child")
	f.AddLine(2, "grandchild")
	require.Equal(t, "└── root\n    └── child\n        └── grandchild", f.String())
}

func TestTreeFormatter_DeepNesting(t *testing.T) {
	f := NewTreeFormatter()
	for i := 0; i < 4; i++ {
		f.AddLine(i, "level")
	}
	require.Equal(t,
		"└── level\n    └── level\n        └── level\n            └── level",
		f.String())
}

func TestTreeFormatter_ComplexTree(t *testing.T) {
	f := NewTreeFormatter()
	f.AddLine(0, "root")
	f.AddLine(1, "a")
	f.AddLine(2, "a1")
	f.AddLine(1, "b")
	f.AddLine(2, "b1")
	f.AddLine(2, "b2")

	expected := "└── root\n" +
		"    ├── a\n" +
		"    │   └── a1\n" +
		"    └── b\n" +
		"        ├── b1\n" +
		"        └── b2"
	require.Equal(t, expected, f.String())
}

func TestTreeFormatter_AddTree(t *testing.T) {
	sub := NewTreeFormatter()
	sub.AddLine(0, "child")
	sub.AddLine(1, "grandchild")

	f := NewTreeFormatter()
	f.AddLine(0, "root")
	f.AddTree(1, sub)

	require.Equal(t, "└── root\n    └── child\n        └── grandchild", f.String())
}

func TestTreeFormatter_Empty(t *testing.T) {
	f := NewTreeFormatter()
	require.True(t, f.Empty())
	require.Equal(t, "", f.String())
}
