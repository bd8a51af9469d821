package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_FindsTaggedTemplate(t *testing.T) {
	src := []byte(`
const QUERY = gql` + "`" + `
	query GetUser {
		user { id }
	}
` + "`" + `;
`)
	e := New(nil)
	payloads, skipped, err := e.Extract(context.Background(), src, "component.ts")
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, payloads, 1)
	require.Contains(t, payloads[0].Content, "query GetUser")
	require.Equal(t, "component.ts", payloads[0].File)
}

func TestExtract_IgnoresUntaggedTemplate(t *testing.T) {
	src := []byte("const s = `hello ${name}`;")
	e := New(nil)
	payloads, skipped, err := e.Extract(context.Background(), src, "a.ts")
	require.NoError(t, err)
	require.Empty(t, payloads)
	require.Empty(t, skipped)
}

func TestExtract_IgnoresUnrecognizedTag(t *testing.T) {
	src := []byte("const s = css`color: red;`;")
	e := New(nil)
	payloads, skipped, err := e.Extract(context.Background(), src, "a.ts")
	require.NoError(t, err)
	require.Empty(t, payloads)
	require.Empty(t, skipped)
}

func TestExtract_SkipsInterpolatedTemplate(t *testing.T) {
	src := []byte("const q = gql`query Q { ${fragmentSpread} }`;")
	e := New(nil)
	payloads, skipped, err := e.Extract(context.Background(), src, "a.ts")
	require.NoError(t, err)
	require.Empty(t, payloads)
	require.Len(t, skipped, 1)
	require.Equal(t, "a.ts", skipped[0].File)
}

func TestExtract_CustomTagList(t *testing.T) {
	src := []byte("const q = query`{ user { id } }`;")
	e := New([]string{"query"})
	payloads, _, err := e.Extract(context.Background(), src, "a.ts")
	require.NoError(t, err)
	require.Len(t, payloads, 1)
}

func TestExtract_MultipleTemplatesInOneFile(t *testing.T) {
	src := []byte(`
const A = gql` + "`" + `query A { id }` + "`" + `;
const B = gql` + "`" + `query B { name }` + "`" + `;
`)
	e := New(nil)
	payloads, _, err := e.Extract(context.Background(), src, "a.ts")
	require.NoError(t, err)
	require.Len(t, payloads, 2)
}

func TestExtract_TSXFile(t *testing.T) {
	src := []byte(`
function Component() {
	const data = gql` + "`" + `query Q { id }` + "`" + `;
	return <div>{data}</div>;
}
`)
	e := New(nil)
	payloads, _, err := e.Extract(context.Background(), src, "component.tsx")
	require.NoError(t, err)
	require.Len(t, payloads, 1)
}

func TestExtract_StartLineMatchesTemplatePosition(t *testing.T) {
	src := []byte("const a = 1;\nconst b = 2;\nconst q = gql`query Q { id }`;\n")
	e := New(nil)
	payloads, _, err := e.Extract(context.Background(), src, "a.ts")
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, 3, payloads[0].StartLine)
}
