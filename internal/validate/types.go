// Package validate implements the protection validator: for every
// throwing directive reachable from an operation, decide whether an
// enclosing @catch covers it, expanding fragment spreads on demand.
package validate

import (
	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
	"github.com/gqlsafeguard/gqlsafeguard/internal/registry"
	"github.com/gqlsafeguard/gqlsafeguard/internal/report"
)

// Kind distinguishes the three user-visible unprotected-directive error
// shapes from the error taxonomy.
type Kind int

const (
	UnprotectedThrowOnFieldError Kind = iota
	UnprotectedRequiredThrow
	UnprotectedOperationLevel
)

// Label is the kind_label spec.md's error record uses in reports.
func (k Kind) Label() string {
	if k == UnprotectedRequiredThrow {
		return "requiredThrow"
	}
	return "throwOnFieldError"
}

func (k Kind) reason() string {
	switch k {
	case UnprotectedRequiredThrow:
		return "@required(action: THROW) is not protected by an enclosing @catch"
	case UnprotectedOperationLevel:
		return "operation-level @throwOnFieldError is not protected by an enclosing @catch"
	default:
		return "@throwOnFieldError is not protected by an enclosing @catch"
	}
}

// FieldLevelQueryLabel is the fixed "field" value operation-level errors
// carry, per spec.md §6's JSON schema note.
const FieldLevelQueryLabel = "query level"

// Error is a single unprotected-directive finding. Its tree is rendered on
// demand via RenderTree rather than eagerly, since whether fragment content
// should be fully expanded is a presentation choice the CLI layer makes
// after Validate has already run.
type Error struct {
	File          string
	OperationName string
	FragmentName  string
	FieldName     string
	Kind          Kind
	Pos           gql.Position
	Op            *gql.OperationDef
}

// RenderTree renders the operation's selection tree with the directive at
// e.Pos marked. expandAll controls whether fragment spreads off the path to
// that directive are expanded or shown collapsed; see report.Tree.
func (e Error) RenderTree(reg *registry.Registry, expandAll bool) string {
	return report.Tree(e.Op, reg, e.Pos, expandAll)
}

// MissingFragment records a fragment spread whose target has no
// definition anywhere in the registry. Non-fatal: validation of the rest
// of the operation, and of every other operation, proceeds.
type MissingFragment struct {
	OperationName string
	File          string
	FragmentName  string
	Pos           gql.Position
}

// Result is the full output of a Validate call across every operation in
// a registry.
type Result struct {
	Errors           []Error
	MissingFragments []MissingFragment
}

// HasErrors reports whether any user-visible validation error was found.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}
