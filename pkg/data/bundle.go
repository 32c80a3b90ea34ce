package data

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// bundleFile is the on-disk shape of a Bundle. Stories are stored as plain
// records so the encoder never goes through Story.MarshalJSON, whose output
// it would escape again.
type bundleFile struct {
	Stories  []any    `json:"stories"`
	Metadata Metadata `json:"metadata"`
}

// WriteBundle serializes the bundle as indented UTF-8 JSON. HTML in story
// content is written as-is so the file stays readable in diffs.
func WriteBundle(path string, bundle *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	file := bundleFile{Stories: make([]any, len(bundle.Stories)), Metadata: bundle.Metadata}
	for i, story := range bundle.Stories {
		file.Stories[i] = story.record()
	}
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode story data: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write story data: %w", err)
	}
	return nil
}

// ReadBundle loads a bundle written by WriteBundle.
func ReadBundle(path string) (*Bundle, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: story data file %s", ErrMissingFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read story data: %w", err)
	}

	var bundle Bundle
	if err := json.Unmarshal(content, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse story data %s: %w", path, err)
	}
	return &bundle, nil
}
