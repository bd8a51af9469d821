package scan

import (
	"fmt"

	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
)

// IOError records a file that couldn't be read during ingestion. It never
// aborts a run — every other file is still processed.
type IOError struct {
	File string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.File, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// HostParseError records a file tree-sitter could not parse as TypeScript
// or TSX.
type HostParseError struct {
	File string
	Err  error
}

func (e *HostParseError) Error() string { return fmt.Sprintf("%s: %v", e.File, e.Err) }
func (e *HostParseError) Unwrap() error { return e.Err }

// SkippedInterpolation records a tagged template that was dropped because
// it contained an interpolation and so has no static GraphQL text.
type SkippedInterpolation struct {
	File string
	Line int
}

func (e *SkippedInterpolation) Error() string {
	return fmt.Sprintf("%s:%d: tagged template contains interpolation, skipped", e.File, e.Line)
}

// Diagnostics collects every non-fatal issue encountered during ingestion.
type Diagnostics struct {
	IOErrors         []*IOError
	HostParseErrors  []*HostParseError
	GraphQLErrors    []*gql.ParseError
	SkippedTemplates []*SkippedInterpolation
}

func (d *Diagnostics) Empty() bool {
	return len(d.IOErrors) == 0 && len(d.HostParseErrors) == 0 &&
		len(d.GraphQLErrors) == 0 && len(d.SkippedTemplates) == 0
}
