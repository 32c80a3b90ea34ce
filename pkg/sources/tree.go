package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kerbaras/storysite/pkg/config"
	"github.com/kerbaras/storysite/pkg/data"
)

// SlugSeparator joins the path segments of nested story folders.
const SlugSeparator = "-"

// Tree discovers stories in a directory tree. A folder is a story when it
// holds a file for every language.
type Tree struct {
	Root      string
	Exclude   string
	Languages []string
	FileNames func(lang string) []string
}

func NewTree(cfg *config.Config) *Tree {
	return &Tree{
		Root:      cfg.Path(cfg.SourceDir),
		Exclude:   cfg.ScaffoldFolder,
		Languages: cfg.LanguageCodes(),
		FileNames: cfg.StoryFileNames,
	}
}

// Slug derives the story identifier from a folder path relative to root.
func Slug(rel string) string {
	return strings.Join(strings.Split(filepath.ToSlash(rel), "/"), SlugSeparator)
}

func (t *Tree) Discover() (*Discovery, error) {
	info, err := os.Stat(t.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: source directory %s", data.ErrMissingFile, t.Root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", t.Root)
	}

	discovery := &Discovery{}
	seen := make(map[string]bool)

	err = filepath.WalkDir(t.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == t.Root {
			return nil
		}
		name := d.Name()
		if name == t.Exclude || strings.HasPrefix(name, ".") || name == "__pycache__" {
			return filepath.SkipDir
		}
		if !t.isStory(path) {
			return nil
		}

		rel, err := filepath.Rel(t.Root, path)
		if err != nil {
			return err
		}
		candidate := Candidate{Slug: Slug(rel), Dir: path}
		if seen[candidate.Slug] {
			discovery.Duplicates = append(discovery.Duplicates, candidate)
			return nil
		}
		seen[candidate.Slug] = true
		discovery.Candidates = append(discovery.Candidates, candidate)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	return discovery, nil
}

func (t *Tree) isStory(dir string) bool {
	for _, lang := range t.Languages {
		if _, err := t.StoryFile(dir, lang); err != nil {
			return false
		}
	}
	return true
}

// StoryFile returns the first existing file for lang in dir, trying the
// configured extensions in order.
func (t *Tree) StoryFile(dir, lang string) (string, error) {
	names := t.FileNames(lang)
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", data.ErrMissingFile, strings.Join(names, " or "))
}
