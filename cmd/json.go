/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gqlsafeguard/gqlsafeguard/internal/gql"
	"github.com/gqlsafeguard/gqlsafeguard/internal/scan"
)

// registryDump is the shape `gqlsafeguard json` prints: every operation
// and fragment the scan found, with their directive annotations, so
// downstream tooling can inspect the full parsed registry without running
// validation at all.
type registryDump struct {
	Operations []operationDump `json:"operations"`
	Fragments  []fragmentDump  `json:"fragments"`
	Conflicts  []conflictDump  `json:"conflicts,omitempty"`
}

type operationDump struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	File       string          `json:"file"`
	Line       int             `json:"line"`
	Col        int             `json:"col"`
	Directives []directiveDump `json:"directives,omitempty"`
}

type fragmentDump struct {
	Name          string          `json:"name"`
	TypeCondition string          `json:"typeCondition"`
	File          string          `json:"file"`
	Line          int             `json:"line"`
	Col           int             `json:"col"`
	Directives    []directiveDump `json:"directives,omitempty"`
}

type directiveDump struct {
	Name string `json:"name"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

type conflictDump struct {
	Name       string `json:"name"`
	FirstFile  string `json:"firstFile"`
	SecondFile string `json:"secondFile"`
}

// NewJSONCmd builds the `json` subcommand: a full registry dump, useful
// for debugging the extractor/parser independently of validation.
func NewJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "json [PATH]",
		Short:         "Dump every parsed GraphQL operation and fragment as JSON",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runJSONCmd,
	}
}

func runJSONCmd(cmd *cobra.Command, args []string) error {
	result, err := scan.Run(context.Background(), scan.Config{
		Cwd:      resolveCwd(cmd, args),
		Patterns: patterns,
		Ignores:  ignores,
		Tags:     tags,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	dump := registryDump{}
	for _, op := range result.Registry.Operations() {
		dump.Operations = append(dump.Operations, operationDump{
			Name:       op.Name,
			Kind:       op.Kind.String(),
			File:       op.File,
			Line:       op.Pos.Line,
			Col:        op.Pos.Column,
			Directives: dumpDirectives(op.Directives),
		})
	}
	for _, f := range result.Registry.Fragments() {
		dump.Fragments = append(dump.Fragments, fragmentDump{
			Name:          f.Name,
			TypeCondition: f.TypeCondition,
			File:          f.File,
			Line:          f.Pos.Line,
			Col:           f.Pos.Column,
			Directives:    dumpDirectives(f.Directives),
		})
	}
	for _, c := range result.Registry.Conflicts() {
		dump.Conflicts = append(dump.Conflicts, conflictDump{
			Name:       c.Name,
			FirstFile:  c.FirstFile,
			SecondFile: c.SecondFile,
		})
	}

	b, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func dumpDirectives(dirs []gql.Directive) []directiveDump {
	if len(dirs) == 0 {
		return nil
	}
	out := make([]directiveDump, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, directiveDump{Name: d.RawName, Line: d.Pos.Line, Col: d.Pos.Column})
	}
	return out
}
