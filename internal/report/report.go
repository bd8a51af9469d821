// Package report renders a validated operation's effective selection tree
// (fragment spreads expanded) with ❌ markers on the directive that a
// particular validation error is about, and serializes validation results
// to the tool's stable JSON schema.
package report

import (
	"strings"

	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
	"github.com/gqlsafeguard/gqlsafeguard/internal/registry"
)

// Hint is the fixed explanatory block appended to every text report that
// contains at least one error.
const Hint = "Unprotected field errors thrown by @throwOnFieldError or @required(action: THROW) crash server-side rendering, because error boundaries only run in the browser. Wrap the throwing selection (or an ancestor) in @catch."

// JSONError is the shape of a single entry in the validate --json errors
// array.
type JSONError struct {
	FileName  string `json:"fileName"`
	Reason    string `json:"reason"`
	Name      string `json:"name"`
	Field     string `json:"field"`
	QueryTree string `json:"queryTree"`
	Line      int    `json:"line"`
	Col       int    `json:"col"`
}

// JSONMissingFragment is the shape of a single entry in the validate --json
// missingFragments array: a non-fatal diagnostic, kept out of errors[]
// since it isn't an unprotected directive.
type JSONMissingFragment struct {
	FileName      string `json:"fileName"`
	OperationName string `json:"operationName"`
	FragmentName  string `json:"fragmentName"`
	Line          int    `json:"line"`
	Col           int    `json:"col"`
}

// JSONResult is the top-level shape of the validate --json result.
type JSONResult struct {
	Errors           []JSONError           `json:"errors"`
	MissingFragments []JSONMissingFragment `json:"missingFragments,omitempty"`
	Hint             string                `json:"hint"`
}

type renderResult struct {
	node   *TreeFormatter
	marked bool
}

// Tree renders op's effective selection tree with fragment spreads expanded
// in place, marking with ❌ the node carrying the directive at target and
// every ancestor on the path to it (fields, inline fragments, fragment
// spreads with their "Fragment Content:" block, and the operation line).
//
// When expandAll is false, a fragment spread's "Fragment Content:" block is
// only spliced in when that spread is on the path to target; spreads
// elsewhere in the tree render as a collapsed single line. When expandAll is
// true every reachable fragment spread is expanded regardless of proximity
// to target, for callers that want the whole picture.
func Tree(op *gql.OperationDef, reg *registry.Registry, target gql.Position, expandAll bool) string {
	visiting := map[string]bool{}
	results := make([]renderResult, 0, len(op.Selections))
	anyChildMarked := false
	for _, sel := range op.Selections {
		r := renderSelection(sel, reg, target, expandAll, visiting)
		results = append(results, r)
		anyChildMarked = anyChildMarked || r.marked
	}

	selfMarked := marksAny(op.Directives, target)
	label := op.Kind.String() + " " + op.Name + directiveSuffix(op.Directives)
	if selfMarked || anyChildMarked {
		label = "❌ " + label
	}

	f := NewTreeFormatter()
	f.AddLine(0, label)
	for _, r := range results {
		f.AddTree(1, r.node)
	}
	return f.String()
}

func renderSelection(sel gql.Selection, reg *registry.Registry, target gql.Position, expandAll bool, visiting map[string]bool) renderResult {
	switch s := sel.(type) {
	case *gql.Field:
		return renderField(s, reg, target, expandAll, visiting)
	case *gql.InlineFragment:
		return renderInlineFragment(s, reg, target, expandAll, visiting)
	case *gql.FragmentSpread:
		return renderFragmentSpread(s, reg, target, expandAll, visiting)
	default:
		return renderResult{node: NewTreeFormatter()}
	}
}

func renderField(field *gql.Field, reg *registry.Registry, target gql.Position, expandAll bool, visiting map[string]bool) renderResult {
	children, anyChildMarked := renderChildren(field.Selections, reg, target, expandAll, visiting)
	marked := marksAny(field.Directives, target) || anyChildMarked

	label := "📄 " + field.Name() + directiveSuffix(field.Directives)
	if marked {
		label = "❌ " + label
	}

	f := NewTreeFormatter()
	f.AddLine(0, label)
	for _, c := range children {
		f.AddTree(1, c.node)
	}
	return renderResult{node: f, marked: marked}
}

func renderInlineFragment(inline *gql.InlineFragment, reg *registry.Registry, target gql.Position, expandAll bool, visiting map[string]bool) renderResult {
	children, anyChildMarked := renderChildren(inline.Selections, reg, target, expandAll, visiting)
	marked := marksAny(inline.Directives, target) || anyChildMarked

	label := "🔹 ... on " + inline.TypeCondition + directiveSuffix(inline.Directives)
	if marked {
		label = "❌ " + label
	}

	f := NewTreeFormatter()
	f.AddLine(0, label)
	for _, c := range children {
		f.AddTree(1, c.node)
	}
	return renderResult{node: f, marked: marked}
}

func renderFragmentSpread(spread *gql.FragmentSpread, reg *registry.Registry, target gql.Position, expandAll bool, visiting map[string]bool) renderResult {
	selfMarked := marksAny(spread.Directives, target)
	base := "🧩 ..." + spread.FragmentName + directiveSuffix(spread.Directives)

	frag, ok := reg.LookupFragment(spread.FragmentName)
	f := NewTreeFormatter()
	if !ok {
		label := base + " (missing fragment)"
		if selfMarked {
			label = "❌ " + label
		}
		f.AddLine(0, label)
		return renderResult{node: f, marked: selfMarked}
	}
	if visiting[spread.FragmentName] {
		label := base + " (cycle)"
		if selfMarked {
			label = "❌ " + label
		}
		f.AddLine(0, label)
		return renderResult{node: f, marked: selfMarked}
	}

	fragMarked := marksAny(frag.Directives, target)
	visiting[spread.FragmentName] = true
	children, anyChildMarked := renderChildren(frag.Selections, reg, target, expandAll, visiting)
	delete(visiting, spread.FragmentName)

	onPath := fragMarked || anyChildMarked
	marked := selfMarked || onPath

	if !expandAll && !onPath {
		label := base + " (collapsed)"
		if selfMarked {
			label = "❌ " + label
		}
		f.AddLine(0, label)
		return renderResult{node: f, marked: marked}
	}

	label := base
	if marked {
		label = "❌ " + label
	}
	f.AddLine(0, label)

	contentLabel := "Fragment Content: " + frag.Name + directiveSuffix(frag.Directives)
	if onPath {
		contentLabel = "❌ " + contentLabel
	}
	content := NewTreeFormatter()
	content.AddLine(0, contentLabel)
	for _, c := range children {
		content.AddTree(1, c.node)
	}
	f.AddTree(1, content)

	return renderResult{node: f, marked: marked}
}

func renderChildren(sels []gql.Selection, reg *registry.Registry, target gql.Position, expandAll bool, visiting map[string]bool) ([]renderResult, bool) {
	results := make([]renderResult, 0, len(sels))
	any := false
	for _, s := range sels {
		r := renderSelection(s, reg, target, expandAll, visiting)
		results = append(results, r)
		any = any || r.marked
	}
	return results, any
}

func marksAny(dirs []gql.Directive, target gql.Position) bool {
	for _, d := range dirs {
		if d.Pos == target {
			return true
		}
	}
	return false
}

func directiveSuffix(dirs []gql.Directive) string {
	var parts []string
	for _, d := range dirs {
		switch d.Kind {
		case gql.Catch:
			parts = append(parts, "[🧤 @catch]")
		case gql.ThrowOnFieldError:
			parts = append(parts, "[☄️ @throwOnFieldError]")
		case gql.RequiredThrow:
			parts = append(parts, "[☄️ @required(action: THROW)]")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
