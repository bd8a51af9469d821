package scan

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIgnores is unioned with every user-supplied --ignore pattern list,
// per the CLI's external-interface contract.
var DefaultIgnores = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/.yarn/**",
	"**/.swc/**",
	"**/*.xcassets/**",
}

// DiscoverFiles resolves patterns (relative to cwd) to a deduplicated,
// sorted list of file paths joined onto cwd (absolute only when cwd is),
// excluding anything matched by ignores or DefaultIgnores.
func DiscoverFiles(cwd string, patterns, ignores []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"**/*.ts", "**/*.tsx"}
	}
	allIgnores := append(append([]string{}, DefaultIgnores...), ignores...)

	seen := map[string]bool{}
	var out []string

	for _, pat := range patterns {
		full := filepath.Join(cwd, pat)
		matches, err := doublestar.FilepathGlob(full)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			rel, err := filepath.Rel(cwd, m)
			if err != nil {
				rel = m
			}
			if ignored(rel, allIgnores) {
				continue
			}
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func ignored(relPath string, ignores []string) bool {
	slashPath := filepath.ToSlash(relPath)
	for _, pat := range ignores {
		if ok, _ := doublestar.Match(pat, slashPath); ok {
			return true
		}
	}
	return false
}
