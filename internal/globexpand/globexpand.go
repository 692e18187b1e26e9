// Package globexpand implements the filename-glob collaborator the
// evaluator's glob-literal expression (spec §4.6 "glob literal `%…%`")
// delegates to. The runtime core treats glob expansion as an external
// collaborator with a named interface only; this package is that
// collaborator's concrete, filesystem-backed implementation.
//
// No third-party glob library appears anywhere in the retrieved example
// repos, so this is built on path/filepath — see DESIGN.md.
package globexpand

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Expand resolves pattern against cwd. A plain glob (%pattern%) matches
// only within cwd itself; a recursive glob (%%pattern%%) additionally
// matches the pattern's base name at any depth under cwd. Bash's
// nullglob-off convention applies: a pattern with no matches expands to
// itself, unchanged.
func Expand(cwd, pattern string, recurse bool) ([]string, error) {
	if !recurse {
		matches, err := filepath.Glob(filepath.Join(cwd, pattern))
		if err != nil {
			return nil, err
		}
		return relativizeOrLiteral(cwd, pattern, matches), nil
	}

	var matches []string
	err := filepath.WalkDir(cwd, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries rather than aborting the whole walk
		}
		if path == cwd {
			return nil
		}
		ok, matchErr := filepath.Match(pattern, d.Name())
		if matchErr != nil {
			return matchErr
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return relativizeOrLiteral(cwd, pattern, matches), nil
}

func relativizeOrLiteral(cwd, pattern string, matches []string) []string {
	if len(matches) == 0 {
		return []string{pattern}
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		rel, err := filepath.Rel(cwd, m)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = m
		}
		out[i] = rel
	}
	sort.Strings(out)
	return out
}
