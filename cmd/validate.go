/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gqlsafeguard/gqlsafeguard/internal/registry"
	"github.com/gqlsafeguard/gqlsafeguard/internal/report"
	"github.com/gqlsafeguard/gqlsafeguard/internal/scan"
	"github.com/gqlsafeguard/gqlsafeguard/internal/validate"
	"github.com/gqlsafeguard/gqlsafeguard/pkg/diagnostic"
	"github.com/gqlsafeguard/gqlsafeguard/pkg/render"
)

// ErrValidationFailed is returned when the scan found at least one
// unprotected throwing directive. It is a sentinel error signaling the scan
// ran fine but the code it scanned didn't pass, not that the command itself
// failed. Missing fragments are reported separately and never trigger it:
// they're a non-fatal diagnostic about the scan's own completeness, not an
// unprotected directive.
var ErrValidationFailed = errors.New("validation failed")

var (
	showTrees bool
	verbose   bool
	jsonOut   bool
	onlyQuery string
)

// NewValidateCmd builds the `validate` subcommand: scan matched files,
// report every unprotected throwing directive.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [PATH]",
		Short: "Scan for GraphQL error-handling directives unprotected by @catch",
		Long: `Scans every matched .ts/.tsx file under PATH (or --cwd, default ".") for
gql-tagged GraphQL operations and fragments, then reports any
@throwOnFieldError or @required(action: THROW) directive not covered by
an enclosing @catch.

Unresolved fragment spreads are reported separately as a non-fatal
diagnostic (on stderr, or in the missingFragments array with --json);
they don't affect the exit code.

Exit codes:
  0 - no unprotected directives found
  1 - at least one unprotected directive
  2 - the scan itself failed (bad pattern, unreadable directory, ...)`,
		Example: `  gqlsafeguard validate
  gqlsafeguard validate src/queries
  gqlsafeguard validate --pattern 'src/**/*.tsx' --show-trees
  gqlsafeguard validate --only-query GetUserProfile
  gqlsafeguard validate --json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runValidateCmd,
	}

	cmd.Flags().BoolVar(&showTrees, "show-trees", false, "print each error's selection tree, expanding every fragment spread's content, not only the ones on the path to an error")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "also report fragment-name conflicts and skipped interpolated templates")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the stable validate --json schema instead of text/pretty output")
	cmd.Flags().StringVar(&onlyQuery, "only-query", "", "restrict output to a single named operation")

	return cmd
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	result, err := scan.Run(context.Background(), scan.Config{
		Cwd:      resolveCwd(cmd, args),
		Patterns: patterns,
		Ignores:  ignores,
		Tags:     tags,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	validation := result.Validation
	if onlyQuery != "" {
		filtered, err := filterByOperation(validation, onlyQuery, result)
		if err != nil {
			return err
		}
		validation = filtered
	}

	switch {
	case jsonOut:
		if err := writeJSON(cmd, validation, result.Registry); err != nil {
			return err
		}
	case outputFormat == render.FormatPretty:
		fmt.Fprint(cmd.OutOrStdout(), summaryTable(validation))
		fmt.Fprint(cmd.OutOrStdout(), formatValidationText(validation, result, verbose))
		fmt.Fprint(cmd.ErrOrStderr(), formatMissingFragmentsText(validation.MissingFragments))
	default:
		fmt.Fprint(cmd.OutOrStdout(), formatValidationText(validation, result, verbose))
		fmt.Fprint(cmd.ErrOrStderr(), formatMissingFragmentsText(validation.MissingFragments))
	}

	if validation.HasErrors() {
		return ErrValidationFailed
	}
	return nil
}

func filterByOperation(v validate.Result, name string, result *scan.Result) (validate.Result, error) {
	var names []string
	found := false
	for _, op := range result.Registry.Operations() {
		names = append(names, op.Name)
		if op.Name == name {
			found = true
		}
	}
	if !found {
		if suggestion := findClosest(name, names); suggestion != "" {
			return validate.Result{}, fmt.Errorf("no operation named %q was found, did you mean %q?", name, suggestion)
		}
		return validate.Result{}, fmt.Errorf("no operation named %q was found", name)
	}

	out := validate.Result{}
	for _, e := range v.Errors {
		if e.OperationName == name {
			out.Errors = append(out.Errors, e)
		}
	}
	for _, m := range v.MissingFragments {
		if m.OperationName == name {
			out.MissingFragments = append(out.MissingFragments, m)
		}
	}
	return out, nil
}

func writeJSON(cmd *cobra.Command, v validate.Result, reg *registry.Registry) error {
	out := validate.ToJSON(v, reg, showTrees)
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

// summaryTable renders a compact one-row-per-error table ahead of the full
// text detail, the way a terminal user scanning a large result wants an
// overview before the tree-by-tree breakdown.
func summaryTable(v validate.Result) string {
	if len(v.Errors) == 0 {
		return ""
	}

	renderer := render.Renderer[validate.Error]{
		Data: v.Errors,
		PrettyFormat: func(errs []validate.Error) string {
			t := makeTable().Headers("FILE", "OPERATION", "FIELD", "KIND")
			for _, e := range errs {
				t.Row(fmt.Sprintf("%s:%s", e.File, e.Pos), e.OperationName, e.FieldName, e.Kind.Label())
			}
			return t.String()
		},
	}
	out, err := renderer.Render(render.FormatPretty)
	if err != nil {
		return ""
	}
	return out + "\n\n"
}

func formatValidationText(v validate.Result, result *scan.Result, verbose bool) string {
	var b strings.Builder

	total := len(v.Errors)
	if total == 0 {
		b.WriteString("✓ no unprotected GraphQL error-handling directives found\n")
	} else if total == 1 {
		b.WriteString("✗ found 1 problem:\n\n")
	} else {
		fmt.Fprintf(&b, "✗ found %d problems:\n\n", total)
	}

	for _, e := range v.Errors {
		b.WriteString(diagnostic.RenderLocation(e.File, e.Pos.Line, e.Pos.Column))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s is not protected by an enclosing @catch (operation: %s, field: %s)\n", e.Kind.Label(), e.OperationName, e.FieldName)
		if showTrees {
			b.WriteString(e.RenderTree(result.Registry, showTrees))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if verbose {
		if conflicts := result.Registry.Conflicts(); len(conflicts) > 0 {
			b.WriteString("fragment name conflicts:\n")
			for _, c := range conflicts {
				fmt.Fprintf(&b, "  %s: %s:%s vs %s:%s (last writer wins)\n",
					c.Name, c.FirstFile, c.FirstPos, c.SecondFile, c.SecondPos)
			}
			b.WriteString("\n")
		}
		if len(result.Diagnostics.SkippedTemplates) > 0 {
			b.WriteString("skipped interpolated templates:\n")
			for _, s := range result.Diagnostics.SkippedTemplates {
				fmt.Fprintf(&b, "  %s:%d\n", s.File, s.Line)
			}
			b.WriteString("\n")
		}
	}

	if total > 0 {
		b.WriteString(report.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// formatMissingFragmentsText renders unresolved fragment spreads as a
// non-fatal diagnostic block, written to stderr rather than mixed into the
// stdout validation report: a dangling spread (possibly to a fragment
// defined outside the scanned tree) isn't itself an unprotected directive.
func formatMissingFragmentsText(missing []validate.MissingFragment) string {
	if len(missing) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("warning: unresolved fragment spreads:\n")
	for _, m := range missing {
		b.WriteString(diagnostic.RenderLocation(m.File, m.Pos.Line, m.Pos.Column))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  fragment \"%s\" is spread but never defined\n\n", m.FragmentName)
	}
	return b.String()
}
