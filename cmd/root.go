/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gqlsafeguard/gqlsafeguard/pkg/render"
)

var (
	cwd          string
	patterns     []string
	ignores      []string
	tags         []string
	outputFormat render.Format
)

func formatFlag() string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return string(render.FormatPretty)
	}
	return string(render.FormatText)
}

// NewRootCmd creates and returns the root command with all subcommands
// attached. This function creates a fresh command tree, ensuring no state
// leaks between invocations.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gqlsafeguard",
		Short: "Catch unprotected GraphQL error-handling directives before they ship",
		Long: `gqlsafeguard scans TypeScript/TSX source for gql-tagged GraphQL
operations and flags any @throwOnFieldError or @required(action: THROW)
directive that isn't covered by an enclosing @catch boundary.

An uncovered throwing directive crashes server-side rendering, because
error boundaries only run in the browser. gqlsafeguard finds those before
they reach production.`,
		Example: `  # Validate every .ts/.tsx file under the current directory
  gqlsafeguard validate

  # Validate a specific directory
  gqlsafeguard validate src/queries

  # Restrict the scan to specific directories
  gqlsafeguard validate --pattern 'src/**/*.tsx'

  # CI-friendly JSON output
  gqlsafeguard validate --json

  # Dump the full parsed registry (operations + fragments)
  gqlsafeguard json`,
	}

	cmd.PersistentFlags().StringVar(&cwd, "cwd", ".", "directory to scan from (overridden by a positional PATH argument, if given)")
	cmd.PersistentFlags().StringSliceVar(&patterns, "pattern", nil, "glob pattern to include (repeatable; default: **/*.ts, **/*.tsx)")
	cmd.PersistentFlags().StringSliceVar(&ignores, "ignore", nil, "glob pattern to exclude (repeatable, unioned with built-in defaults)")
	cmd.PersistentFlags().StringSliceVar(&tags, "tag", nil, "tagged-template function name to treat as GraphQL (repeatable; default: gql, graphql)")

	var formatStr string
	cmd.PersistentFlags().StringVarP(&formatStr, "format", "f", formatFlag(), "Output format: json, text, pretty (default: pretty if interactive, text otherwise)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		outputFormat, err = render.ParseFormat(formatStr)
		return err
	}

	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewJSONCmd())

	return cmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, ErrValidationFailed) {
		os.Exit(1)
	}
	cmd.PrintErrln(err)
	os.Exit(2)
}

// ExecuteWithArgs runs the CLI with the given arguments and returns
// stdout, stderr, and any error. This is useful for testing.
func ExecuteWithArgs(args []string) (stdout string, stderr string, err error) {
	return ExecuteWithArgsAndStdin(args, nil)
}

// ExecuteWithArgsAndStdin runs the CLI with the given arguments and
// stdin, returns stdout, stderr, and any error. This is useful for
// testing commands that read from stdin.
func ExecuteWithArgsAndStdin(args []string, stdin *bytes.Buffer) (stdout string, stderr string, err error) {
	cmd := NewRootCmd()

	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)

	cmd.SetOut(stdoutBuf)
	cmd.SetErr(stderrBuf)
	cmd.SetArgs(args)
	if stdin != nil {
		cmd.SetIn(stdin)
	}

	err = cmd.Execute()

	return stdoutBuf.String(), stderrBuf.String(), err
}
