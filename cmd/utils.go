package cmd

import (
	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var tableStyle = lipgloss.NewStyle().PaddingRight(1)

func makeTable() *table.Table {
	return table.New().
		Width(120).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return tableStyle
		})
}

// resolveCwd returns the directory to scan: the positional PATH argument if
// one was given, otherwise the --cwd flag's value.
func resolveCwd(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cwd
}

const maxSuggestionDistance = 5

// findClosest returns the candidate nearest to input by Levenshtein
// distance, or "" if nothing is within maxSuggestionDistance. Used for
// "did you mean" suggestions when --only-query names an operation that
// isn't in the registry.
func findClosest(input string, candidates []string) string {
	minDist := -1
	closest := ""
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(input, c)
		if minDist == -1 || dist < minDist {
			minDist = dist
			closest = c
		}
	}
	if minDist > maxSuggestionDistance {
		return ""
	}
	return closest
}
