// Package order keeps the persisted story order in sync with the stories
// found on disk.
//
// The order file is plain text, one slug per line. Blank lines and lines
// starting with '#' are ignored. The tool only ever appends to it: slugs a
// user placed by hand keep their relative positions.
package order

import (
	"sort"
	"strings"
)

// Header starts a newly created order file.
var Header = []string{
	"# Story order for the main page + prev/next navigation",
	"# One slug per line.",
	"# Slug = folder name under stories-source/, or nested folders joined with '-'",
	"",
}

// AddedMarker precedes slugs appended by Merge.
const AddedMarker = "# Added automatically (new stories detected)"

// Parse returns the slugs listed in lines, in order, keeping only the first
// occurrence of a repeated slug.
func Parse(lines []string) []string {
	slugs := []string{}
	seen := make(map[string]bool)
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		slugs = append(slugs, line)
	}
	return slugs
}

// Create builds the content of a new order file listing discovered in
// sorted order.
func Create(discovered []string) (lines []string, slugs []string) {
	slugs = sortedUnique(discovered)
	lines = make([]string, 0, len(Header)+len(slugs))
	lines = append(lines, Header...)
	lines = append(lines, slugs...)
	return lines, slugs
}

// Merge appends the discovered slugs missing from lines. It returns the new
// file lines, the resulting order and whether anything was appended. Lines
// already present are returned untouched.
func Merge(lines []string, discovered []string) (merged []string, slugs []string, changed bool) {
	existing := Parse(lines)
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s] = true
	}

	var missing []string
	for _, s := range sortedUnique(discovered) {
		if !known[s] {
			missing = append(missing, s)
		}
	}

	merged = make([]string, len(lines), len(lines)+len(missing)+2)
	copy(merged, lines)
	if len(missing) == 0 {
		return merged, existing, false
	}

	if len(merged) > 0 && strings.TrimSpace(merged[len(merged)-1]) != "" {
		merged = append(merged, "")
	}
	merged = append(merged, AddedMarker)
	merged = append(merged, missing...)

	return merged, append(existing, missing...), true
}

// Unknown returns the slugs of order that were not discovered.
func Unknown(order []string, discovered []string) []string {
	found := make(map[string]bool, len(discovered))
	for _, s := range discovered {
		found[s] = true
	}
	var unknown []string
	for _, s := range order {
		if !found[s] {
			unknown = append(unknown, s)
		}
	}
	return unknown
}

func sortedUnique(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
