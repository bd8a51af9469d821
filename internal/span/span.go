// Package span recognizes, within an extracted GraphQL payload, the
// in-source ignore comment that suppresses errors from the node below it.
// It does not convert byte offsets to line/column positions.
package span

import "strings"

// IgnoreComment is the exact (trimmed) line content that suppresses
// validation for the directive or selection on the next non-blank line
// below it.
const IgnoreComment = "# gql-safeguard-ignore"

// Finder answers ignore-marker lookups against a single payload's raw text,
// split into lines. It is built once per payload and reused for every
// directive/selection inside that payload.
type Finder struct {
	lines []string
}

// New builds a Finder over payload content.
func New(content string) *Finder {
	return &Finder{lines: strings.Split(content, "\n")}
}

// HasIgnoreMarker reports whether the first non-blank line strictly above
// beforeLine (1-based, exclusive) is the ignore comment. Blank lines are
// skipped; any other non-blank content (including an unrelated comment)
// stops the search and returns false.
func (f *Finder) HasIgnoreMarker(beforeLine int) bool {
	for i := beforeLine - 2; i >= 0; i-- {
		if i >= len(f.lines) {
			continue
		}
		trimmed := strings.TrimSpace(f.lines[i])
		if trimmed == "" {
			continue
		}
		return trimmed == IgnoreComment
	}
	return false
}
