package validate

import (
	"runtime"
	"sync"

	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
	"github.com/gqlsafeguard/gqlsafeguard/internal/registry"
	"golang.org/x/sync/errgroup"
)

// Validate walks every operation in reg and reports every throwing
// directive that isn't covered by an enclosing @catch. Operations are
// validated concurrently; the walk within a single operation is
// sequential and bails out of a subtree the moment it becomes covered,
// since coverage only ever turns on, never off.
func Validate(reg *registry.Registry) Result {
	ops := reg.Operations()

	var mu sync.Mutex
	var errs []Error
	var missing []MissingFragment

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for _, op := range ops {
		op := op
		g.Go(func() error {
			v := &opValidator{op: op, reg: reg, visiting: map[string]bool{}}
			v.run()

			mu.Lock()
			errs = append(errs, v.errors...)
			missing = append(missing, v.missing...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sortErrors(errs)
	sortMissing(missing)
	return Result{Errors: errs, MissingFragments: missing}
}

// opValidator carries the per-operation state needed for one recursive
// descent: the active fragment-spread path (for cycle detection), and the
// name of the fragment whose selections are being walked ("" at the
// operation's own level), for attributing errors to that fragment. The
// nearest enclosing field name, used for nodes that don't name a field
// themselves (fragment defs, inline fragments), is passed down as an
// argument instead.
type opValidator struct {
	op       *gql.OperationDef
	reg      *registry.Registry
	visiting map[string]bool
	fragment string

	errors  []Error
	missing []MissingFragment
}

func (v *opValidator) run() {
	op := v.op
	covered := hasCatch(op.Directives)
	if !op.Ignored {
		for _, d := range op.Directives {
			if isThrow(d) && !covered {
				v.emitOperationLevel(d, Position(d))
			}
		}
	}
	if covered {
		return
	}
	v.visitSelections(op.Selections, covered, "")
}

func (v *opValidator) visitSelections(sels []gql.Selection, covered bool, fieldContext string) {
	for _, sel := range sels {
		switch s := sel.(type) {
		case *gql.Field:
			v.visitField(s, covered)
		case *gql.InlineFragment:
			v.visitInlineFragment(s, covered, fieldContext)
		case *gql.FragmentSpread:
			v.visitFragmentSpread(s, covered, fieldContext)
		}
	}
}

func (v *opValidator) visitField(field *gql.Field, covered bool) {
	if field.Ignored {
		v.visitSelections(field.Selections, covered, field.Name())
		return
	}

	fieldCovered := covered || hasCatch(field.Directives)
	for _, d := range field.Directives {
		if isThrow(d) && !fieldCovered {
			v.emit(d, Position(d), v.fragment, field.Name(), v.op.Name)
		}
	}
	if fieldCovered {
		return
	}
	v.visitSelections(field.Selections, fieldCovered, field.Name())
}

func (v *opValidator) visitInlineFragment(inline *gql.InlineFragment, covered bool, fieldContext string) {
	if inline.Ignored {
		v.visitSelections(inline.Selections, covered, fieldContext)
		return
	}

	inlineCovered := covered || hasCatch(inline.Directives)
	for _, d := range inline.Directives {
		if isThrow(d) && !inlineCovered {
			v.emit(d, Position(d), v.fragment, fieldContext, v.op.Name)
		}
	}
	if inlineCovered {
		return
	}
	v.visitSelections(inline.Selections, inlineCovered, fieldContext)
}

func (v *opValidator) visitFragmentSpread(spread *gql.FragmentSpread, covered bool, fieldContext string) {
	spreadCovered := covered
	if !spread.Ignored {
		spreadCovered = covered || hasCatch(spread.Directives)
		for _, d := range spread.Directives {
			if isThrow(d) && !spreadCovered {
				v.emit(d, Position(d), spread.FragmentName, fieldContext, v.op.Name)
			}
		}
	}

	target, ok := v.reg.LookupFragment(spread.FragmentName)
	if !ok {
		v.missing = append(v.missing, MissingFragment{
			OperationName: v.op.Name,
			File:          v.op.File,
			FragmentName:  spread.FragmentName,
			Pos:           spread.Pos,
		})
		return
	}
	if v.visiting[spread.FragmentName] {
		return
	}
	if spreadCovered {
		return
	}

	// Reached only when spreadCovered == false: the fragment definition's
	// own throwing directives are checked against pre-fragment-catch
	// coverage, never against the fragment's own @catch.
	for _, d := range target.Directives {
		if isThrow(d) {
			v.emit(d, Position(d), target.Name, fieldContext, v.op.Name)
		}
	}

	fragCovered := hasCatch(target.Directives)
	if fragCovered {
		return
	}

	v.visiting[spread.FragmentName] = true
	enclosing := v.fragment
	v.fragment = target.Name
	v.visitSelections(target.Selections, fragCovered, fieldContext)
	v.fragment = enclosing
	delete(v.visiting, spread.FragmentName)
}

func (v *opValidator) emit(d gql.Directive, pos gql.Position, fragmentName, fieldName, opName string) {
	kind := UnprotectedThrowOnFieldError
	if d.Kind == gql.RequiredThrow {
		kind = UnprotectedRequiredThrow
	}

	v.errors = append(v.errors, Error{
		File:          v.op.File,
		OperationName: opName,
		FragmentName:  fragmentName,
		FieldName:     fieldName,
		Kind:          kind,
		Pos:           pos,
		Op:            v.op,
	})
}

func (v *opValidator) emitOperationLevel(d gql.Directive, pos gql.Position) {
	v.errors = append(v.errors, Error{
		File:          v.op.File,
		OperationName: v.op.Name,
		FieldName:     FieldLevelQueryLabel,
		Kind:          UnprotectedOperationLevel,
		Pos:           pos,
		Op:            v.op,
	})
}

func hasCatch(dirs []gql.Directive) bool {
	for _, d := range dirs {
		if d.Kind == gql.Catch {
			return true
		}
	}
	return false
}

func isThrow(d gql.Directive) bool {
	return d.Kind == gql.ThrowOnFieldError || d.Kind == gql.RequiredThrow
}

// Position is a tiny accessor so emit's call sites don't need to know
// Directive's field layout.
func Position(d gql.Directive) gql.Position { return d.Pos }
