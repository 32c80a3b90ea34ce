package order

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Origin tells where the order a Result was built from came from.
type Origin int

const (
	// OriginNone means no order file existed and one was created.
	OriginNone Origin = iota
	// OriginCanonical means the canonical file was read.
	OriginCanonical
	// OriginLegacy means the legacy file was read and migrated.
	OriginLegacy
)

func (o Origin) String() string {
	switch o {
	case OriginCanonical:
		return "canonical"
	case OriginLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// Result describes one reconciliation.
type Result struct {
	// Order is the reconciled presentation order. It may list slugs that
	// were not discovered; see Unknown.
	Order []string
	// Added lists the slugs appended in this run.
	Added []string
	// Unknown lists ordered slugs with no backing story.
	Unknown []string
	Origin  Origin
	// Written is true when the canonical file was created or rewritten.
	Written bool
}

// File is the persisted order list. Path is canonical; LegacyPath is only
// ever read, as the baseline for a one-time migration.
type File struct {
	Path       string
	LegacyPath string
}

func NewFile(path, legacyPath string) *File {
	return &File{Path: path, LegacyPath: legacyPath}
}

// Load returns the lines of the order file and where they were read from.
// A missing file is not an error: the returned origin is OriginNone.
func (f *File) Load() ([]string, Origin, error) {
	lines, err := readLines(f.Path)
	if err == nil {
		return lines, OriginCanonical, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, OriginNone, fmt.Errorf("failed to read order file: %w", err)
	}

	if f.LegacyPath == "" {
		return nil, OriginNone, nil
	}
	lines, err = readLines(f.LegacyPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, OriginNone, nil
	}
	if err != nil {
		return nil, OriginNone, fmt.Errorf("failed to read legacy order file: %w", err)
	}
	return lines, OriginLegacy, nil
}

// Slugs returns the persisted order without reconciling it.
func (f *File) Slugs() ([]string, error) {
	lines, _, err := f.Load()
	if err != nil {
		return nil, err
	}
	return Parse(lines), nil
}

// Reconcile merges discovered slugs into the persisted order and writes the
// canonical file when it changed, was missing, or was migrated from the
// legacy location. Running it again with the same discovery writes nothing.
func (f *File) Reconcile(discovered []string) (*Result, error) {
	lines, origin, err := f.Load()
	if err != nil {
		return nil, err
	}

	result := &Result{Origin: origin}

	if origin == OriginNone {
		created, slugs := Create(discovered)
		if err := writeLines(f.Path, created); err != nil {
			return nil, err
		}
		result.Order = slugs
		result.Added = slugs
		result.Written = true
		return result, nil
	}

	merged, slugs, changed := Merge(lines, discovered)
	if changed || origin == OriginLegacy {
		if err := writeLines(f.Path, merged); err != nil {
			return nil, err
		}
		result.Written = true
	}

	before := len(Parse(lines))
	result.Order = slugs
	result.Added = slugs[before:]
	result.Unknown = Unknown(slugs, discovered)
	return result, nil
}

// Rewrite persists order as chosen by a user, keeping the comment block at
// the top of the current file (or the default header).
func (f *File) Rewrite(order []string) error {
	lines, _, err := f.Load()
	if err != nil {
		return err
	}

	var head []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			break
		}
		head = append(head, line)
	}
	if len(head) == 0 {
		head = Header
	}
	if strings.TrimSpace(head[len(head)-1]) != "" {
		head = append(head, "")
	}

	out := append(append([]string(nil), head...), Parse(order)...)
	return writeLines(f.Path, out)
}

func readLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create order file directory: %w", err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write order file: %w", err)
	}
	return nil
}
