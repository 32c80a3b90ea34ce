package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Scaffold creates the folder for a new story at rel (relative to Root) and
// fills it from the template folder, then adds a skeleton file for every
// language still missing one. Existing files are never overwritten. It
// returns the files it created.
func (t *Tree) Scaffold(rel, title string) ([]string, error) {
	rel = filepath.Clean(filepath.FromSlash(rel))
	if rel == "." || filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("invalid story folder %q", rel)
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == t.Exclude || strings.HasPrefix(part, ".") {
			return nil, fmt.Errorf("invalid story folder %q: %q is never scanned", rel, part)
		}
	}

	dir := filepath.Join(t.Root, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create story folder: %w", err)
	}

	var created []string
	templateDir := filepath.Join(t.Root, t.Exclude)
	if info, err := os.Stat(templateDir); t.Exclude != "" && err == nil && info.IsDir() {
		copied, err := copyMissing(templateDir, dir)
		if err != nil {
			return copied, err
		}
		created = copied
	}

	for _, lang := range t.Languages {
		if _, err := t.StoryFile(dir, lang); err == nil {
			continue
		}
		path := filepath.Join(dir, t.FileNames(lang)[0])
		content := fmt.Sprintf("---\ntitle: %s\n---\n\n", title)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return created, fmt.Errorf("failed to write %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}

func copyMissing(src, dst string) ([]string, error) {
	var created []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if _, err := os.Stat(target); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return err
		}
		created = append(created, target)
		return nil
	})
	if err != nil {
		return created, fmt.Errorf("failed to copy story template: %w", err)
	}
	return created, nil
}
