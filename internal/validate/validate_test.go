package validate

import (
	"testing"

	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
	"github.com/gqlsafeguard/gqlsafeguard/internal/registry"
	"github.com/stretchr/testify/require"
)

func mustRegister(t *testing.T, reg *registry.Registry, file, src string) *gql.Document {
	t.Helper()
	doc, err := gql.Parse(gql.Payload{Content: src, File: file, StartLine: 1})
	require.NoError(t, err)
	for _, op := range doc.Operations {
		reg.InsertOperation(op)
	}
	for _, f := range doc.Fragments {
		reg.InsertFragment(f)
	}
	return doc
}

// Scenario 1: an operation-level @catch covers a nested @throwOnFieldError.
func TestValidate_CatchCoversNestedThrow(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q @catch {
			user { avatar @throwOnFieldError }
		}
	`)

	result := Validate(reg)
	require.Empty(t, result.Errors)
}

// Scenario 6: an uncovered operation-level @throwOnFieldError is itself an
// error, reported with the fixed "query level" field label.
func TestValidate_UncoveredOperationLevelThrow(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q @throwOnFieldError {
			user { id }
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, UnprotectedOperationLevel, result.Errors[0].Kind)
	require.Equal(t, FieldLevelQueryLabel, result.Errors[0].FieldName)
}

func TestValidate_UncoveredFieldThrow(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { avatar @throwOnFieldError }
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, UnprotectedThrowOnFieldError, result.Errors[0].Kind)
	require.Equal(t, "avatar", result.Errors[0].FieldName)
}

func TestValidate_RequiredThrowAction_Uncovered(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { name @required(action: THROW) }
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, UnprotectedRequiredThrow, result.Errors[0].Kind)
}

func TestValidate_RequiredLogAction_NeverFlagged(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { name @required(action: LOG) }
		}
	`)

	result := Validate(reg)
	require.Empty(t, result.Errors)
}

// A field's own @catch covers its own co-located throw, and the subtree
// underneath is never walked (rule 5's short-circuit) — verified indirectly
// by there being no error for the nested throw either.
func TestValidate_FieldSelfCatchCoversSelfAndChildren(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user @catch @throwOnFieldError {
				avatar @throwOnFieldError
			}
		}
	`)

	result := Validate(reg)
	require.Empty(t, result.Errors)
}

func TestValidate_FragmentSpreadCatchCoversOwnThrow(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { ...UserFields @catch @throwOnFieldError }
		}
		fragment UserFields on User {
			avatar @throwOnFieldError
		}
	`)

	result := Validate(reg)
	require.Empty(t, result.Errors)
}

// The fragment definition's own throwing directive is checked against
// coverage from before the fragment's own @catch takes effect, so a
// fragment that both throws and catches at its own top level still errors
// on its own throw, even though everything nested under it is covered.
func TestValidate_FragmentDefOwnThrowIgnoresOwnCatch(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { ...UserFields }
		}
		fragment UserFields on User @catch @throwOnFieldError {
			avatar @throwOnFieldError
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "UserFields", result.Errors[0].FragmentName)
}

func TestValidate_MissingFragmentRecordedNotFatal(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { ...Nope }
		}
	`)

	result := Validate(reg)
	require.Empty(t, result.Errors)
	require.Len(t, result.MissingFragments, 1)
	require.Equal(t, "Nope", result.MissingFragments[0].FragmentName)
}

func TestValidate_CircularFragmentSpreadTerminates(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { ...A }
		}
		fragment A on User {
			friend { ...B }
		}
		fragment B on User {
			friend { ...A }
			name @throwOnFieldError
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "name", result.Errors[0].FieldName)
}

// Scenario 8: alias-preserving — two selections of the same underlying
// field, one protected, one not, are tracked independently by alias.
func TestValidate_AliasesTrackedIndependently(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			a: user @catch { name @throwOnFieldError }
			b: user { name @throwOnFieldError }
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "name", result.Errors[0].FieldName)
}

// An ignore-comment on a field suppresses errors for it (and its own
// @catch grants no extra coverage), but its children still inherit
// whatever coverage was already in effect.
func TestValidate_IgnoreCommentSuppressesOwnDirectivesNotChildren(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user {
				# gql-safeguard-ignore
				avatar @throwOnFieldError {
					url @throwOnFieldError
				}
			}
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "url", result.Errors[0].FieldName)
}

func TestValidate_IgnoredOperationSuppressesOperationLevelError(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		# gql-safeguard-ignore
		query Q @throwOnFieldError {
			user { id }
		}
	`)

	result := Validate(reg)
	require.Empty(t, result.Errors)
}

func TestValidate_InlineFragmentOwnCatchCoversOwnThrow(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user {
				... on Admin @catch @throwOnFieldError {
					permissions @throwOnFieldError
				}
			}
		}
	`)

	result := Validate(reg)
	require.Empty(t, result.Errors)
}

func TestValidate_MultipleOperationsValidatedIndependently(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Safe @catch {
			user { avatar @throwOnFieldError }
		}
	`)
	mustRegister(t, reg, "b.ts", `
		query Unsafe {
			user { avatar @throwOnFieldError }
		}
	`)

	result := Validate(reg)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "Unsafe", result.Errors[0].OperationName)
}

func TestToJSON_EmptyResultHasNoHint(t *testing.T) {
	out := ToJSON(Result{}, registry.New(), false)
	require.Empty(t, out.Errors)
	require.Empty(t, out.Hint)
}

func TestToJSON_ErrorsIncludeRenderedTree(t *testing.T) {
	reg := registry.New()
	mustRegister(t, reg, "a.ts", `
		query Q {
			user { avatar @throwOnFieldError }
		}
	`)

	out := ToJSON(Validate(reg), reg, false)
	require.Len(t, out.Errors, 1)
	require.NotEmpty(t, out.Errors[0].QueryTree)
	require.NotEmpty(t, out.Hint)
}
