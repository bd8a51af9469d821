package report

import "strings"

type treeLine struct {
	depth int
	text  string
}

// TreeFormatter accumulates depth-tagged lines and renders them as a
// box-drawing tree, the way the reporter's operation trees are built up
// selection by selection (and fragment expansions are spliced in as whole
// subtrees via AddTree).
type TreeFormatter struct {
	lines []treeLine
}

// NewTreeFormatter returns an empty formatter.
func NewTreeFormatter() *TreeFormatter {
	return &TreeFormatter{}
}

// AddLine appends a single line at the given depth (0 = root level).
func (f *TreeFormatter) AddLine(depth int, text string) {
	f.lines = append(f.lines, treeLine{depth: depth, text: text})
}

// AddTree splices another formatter's lines in as a subtree rooted at
// depth, offsetting every line of sub by depth.
func (f *TreeFormatter) AddTree(depth int, sub *TreeFormatter) {
	for _, l := range sub.lines {
		f.lines = append(f.lines, treeLine{depth: depth + l.depth, text: l.text})
	}
}

// Empty reports whether any line has been added.
func (f *TreeFormatter) Empty() bool {
	return len(f.lines) == 0
}

// isLastSibling reports whether the line at idx is the last among its
// siblings: looking forward, the next line at a depth <= its own means "no
// more siblings follow" only if that next line's depth is strictly less
// (a shallower line ends the sibling group); an equal depth means a
// sibling follows.
func (f *TreeFormatter) isLastSibling(idx int) bool {
	depth := f.lines[idx].depth
	for i := idx + 1; i < len(f.lines); i++ {
		if f.lines[i].depth < depth {
			return true
		}
		if f.lines[i].depth == depth {
			return false
		}
	}
	return true
}

// String renders the accumulated lines as a box-drawing tree.
func (f *TreeFormatter) String() string {
	if len(f.lines) == 0 {
		return ""
	}

	ancestors := make([][]int, len(f.lines))
	var stack []int
	for i, l := range f.lines {
		for len(stack) > l.depth {
			stack = stack[:len(stack)-1]
		}
		anc := make([]int, len(stack))
		copy(anc, stack)
		ancestors[i] = anc
		stack = append(stack, i)
	}

	var sb strings.Builder
	for i, l := range f.lines {
		for _, a := range ancestors[i] {
			if f.isLastSibling(a) {
				sb.WriteString("    ")
			} else {
				sb.WriteString("│   ")
			}
		}
		if f.isLastSibling(i) {
			sb.WriteString("└── ")
		} else {
			sb.WriteString("├── ")
		}
		sb.WriteString(l.text)
		if i != len(f.lines)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
