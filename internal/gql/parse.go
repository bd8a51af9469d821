package gql

import (
	"github.com/gqlsafeguard/gqlsafeguard/internal/span"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Payload is a single GraphQL string pulled out of a tagged template
// literal by the extractor, along with where it starts in the host file.
type Payload struct {
	Content   string
	File      string
	StartLine int
}

// Document is the lowered result of parsing one Payload: zero or more
// operations and fragments, schema-less (this tool never loads a schema).
type Document struct {
	Operations []*OperationDef
	Fragments  []*FragmentDef
}

// Parse parses a single payload's GraphQL text and lowers it into the
// internal selection tree. A syntax error yields a *ParseError and a nil
// Document; the caller is expected to record the error and move on to the
// next payload rather than abort the run.
func Parse(p Payload) (*Document, error) {
	source := &ast.Source{Input: p.Content, Name: p.File}
	doc, err := parser.ParseQuery(source)
	if err != nil {
		return nil, &ParseError{File: p.File, Pos: rebase(p.StartLine, 1, 0), Err: err}
	}

	finder := span.New(p.Content)

	out := &Document{}
	for _, op := range doc.Operations {
		out.Operations = append(out.Operations, lowerOperation(op, p, finder))
	}
	for _, frag := range doc.Fragments {
		out.Fragments = append(out.Fragments, lowerFragment(frag, p, finder))
	}
	return out, nil
}

func lowerOperation(op *ast.OperationDefinition, p Payload, finder *span.Finder) *OperationDef {
	pos := rebase(p.StartLine, line(op.Position), column(op.Position))
	return &OperationDef{
		Name:       op.Name,
		Kind:       lowerOperationKind(op.Operation),
		Directives: lowerDirectives(op.Directives, p.StartLine),
		Selections: lowerSelectionSet(op.SelectionSet, p.StartLine, finder),
		File:       p.File,
		Pos:        pos,
		Ignored:    finder.HasIgnoreMarker(line(op.Position)),
	}
}

func lowerFragment(frag *ast.FragmentDefinition, p Payload, finder *span.Finder) *FragmentDef {
	pos := rebase(p.StartLine, line(frag.Position), column(frag.Position))
	return &FragmentDef{
		Name:          frag.Name,
		TypeCondition: frag.TypeCondition,
		Directives:    lowerDirectives(frag.Directives, p.StartLine),
		Selections:    lowerSelectionSet(frag.SelectionSet, p.StartLine, finder),
		File:          p.File,
		Pos:           pos,
		Ignored:       finder.HasIgnoreMarker(line(frag.Position)),
	}
}

func lowerOperationKind(op ast.Operation) OperationKind {
	switch op {
	case ast.Mutation:
		return Mutation
	case ast.Subscription:
		return Subscription
	default:
		return Query
	}
}

func lowerSelectionSet(set ast.SelectionSet, startLine int, finder *span.Finder) []Selection {
	if len(set) == 0 {
		return nil
	}
	out := make([]Selection, 0, len(set))
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			out = append(out, &Field{
				FieldName:  s.Name,
				Alias:      aliasOf(s),
				Directives: lowerDirectives(s.Directives, startLine),
				Selections: lowerSelectionSet(s.SelectionSet, startLine, finder),
				Pos:        rebase(startLine, line(s.Position), column(s.Position)),
				Ignored:    finder.HasIgnoreMarker(line(s.Position)),
			})
		case *ast.InlineFragment:
			out = append(out, &InlineFragment{
				TypeCondition: s.TypeCondition,
				Directives:    lowerDirectives(s.Directives, startLine),
				Selections:    lowerSelectionSet(s.SelectionSet, startLine, finder),
				Pos:           rebase(startLine, line(s.Position), column(s.Position)),
				Ignored:       finder.HasIgnoreMarker(line(s.Position)),
			})
		case *ast.FragmentSpread:
			out = append(out, &FragmentSpread{
				FragmentName: s.Name,
				Directives:   lowerDirectives(s.Directives, startLine),
				Pos:          rebase(startLine, line(s.Position), column(s.Position)),
				Ignored:      finder.HasIgnoreMarker(line(s.Position)),
			})
		}
	}
	return out
}

// aliasOf returns the response alias only when it differs from the field
// name, matching how gqlparser represents an unaliased field (Alias ==
// Name).
func aliasOf(f *ast.Field) string {
	if f.Alias != "" && f.Alias != f.Name {
		return f.Alias
	}
	return ""
}

func lowerDirectives(dirs ast.DirectiveList, startLine int) []Directive {
	if len(dirs) == 0 {
		return nil
	}
	out := make([]Directive, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, Directive{
			Kind:    classifyDirective(d),
			RawName: d.Name,
			Pos:     rebase(startLine, line(d.Position), column(d.Position)),
		})
	}
	return out
}

// classifyDirective implements Invariant 3: @required only normalizes to
// RequiredThrow when its action argument is exactly THROW.
func classifyDirective(d *ast.Directive) DirectiveKind {
	switch d.Name {
	case "catch":
		return Catch
	case "throwOnFieldError":
		return ThrowOnFieldError
	case "required":
		if hasThrowAction(d) {
			return RequiredThrow
		}
		return Other
	default:
		return Other
	}
}

func hasThrowAction(d *ast.Directive) bool {
	arg := d.Arguments.ForName("action")
	if arg == nil || arg.Value == nil {
		return false
	}
	return arg.Value.Raw == "THROW"
}

func line(pos *ast.Position) int {
	if pos == nil {
		return 1
	}
	return pos.Line
}

func column(pos *ast.Position) int {
	if pos == nil {
		return 1
	}
	return pos.Column
}

// rebase turns a position that is local to a payload's own text into a
// position within the host file, by offsetting the payload-local line by
// where the payload starts (payload line 1 is the template's opening line).
func rebase(payloadStartLine, localLine, localColumn int) Position {
	return Position{Line: payloadStartLine + localLine - 1, Column: localColumn}
}
