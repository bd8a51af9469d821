package validate

import (
	"github.com/gqlsafeguard/gqlsafeguard/internal/registry"
	"github.com/gqlsafeguard/gqlsafeguard/internal/report"
)

// ToJSON converts a Result into the tool's stable validate --json schema.
// MissingFragments are non-fatal diagnostics, not validation errors, so
// they land in their own missingFragments array rather than errors[].
// expandAll controls whether each error's rendered tree fully expands every
// reachable fragment spread or only those on the path to the flagged
// directive; see report.Tree.
func ToJSON(result Result, reg *registry.Registry, expandAll bool) report.JSONResult {
	out := report.JSONResult{Hint: report.Hint}
	if len(result.Errors) == 0 {
		out.Hint = ""
	}

	for _, e := range result.Errors {
		out.Errors = append(out.Errors, report.JSONError{
			FileName:  e.File,
			Reason:    e.Kind.reason(),
			Name:      e.OperationName,
			Field:     e.FieldName,
			QueryTree: e.RenderTree(reg, expandAll),
			Line:      e.Pos.Line,
			Col:       e.Pos.Column,
		})
	}
	for _, m := range result.MissingFragments {
		out.MissingFragments = append(out.MissingFragments, report.JSONMissingFragment{
			FileName:      m.File,
			OperationName: m.OperationName,
			FragmentName:  m.FragmentName,
			Line:          m.Pos.Line,
			Col:           m.Pos.Column,
		})
	}
	return out
}
