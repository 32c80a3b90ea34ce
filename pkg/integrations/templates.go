package integrations

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kerbaras/storysite/pkg/config"
	"github.com/kerbaras/storysite/pkg/data"
)

// Placeholders recognised in story page templates.
const (
	PlaceholderTitle   = "{{TITLE}}"
	PlaceholderSlug    = "{{SLUG}}"
	PlaceholderContent = "{{CONTENT}}"
	PlaceholderPrev    = "{{PREV_LINK}}"
	PlaceholderNext    = "{{NEXT_LINK}}"
	PlaceholderLang    = "{{LANG}}"
	PlaceholderDir     = "{{DIR}}"
)

// Templates holds the raw page templates: one story page per language and
// the landing page.
type Templates struct {
	Stories map[string]string
	Index   string
}

// LoadTemplates reads every template up front so that a missing one stops
// the build before any page is written.
func LoadTemplates(dir string, languages []config.Language, indexName string) (*Templates, error) {
	tpl := &Templates{Stories: make(map[string]string, len(languages))}

	for _, lang := range languages {
		content, err := readTemplate(filepath.Join(dir, lang.Template), lang.Name+" template")
		if err != nil {
			return nil, err
		}
		tpl.Stories[lang.Code] = content
	}

	index, err := readTemplate(filepath.Join(dir, indexName), "index template")
	if err != nil {
		return nil, err
	}
	tpl.Index = index

	return tpl, nil
}

func readTemplate(path, what string) (string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s %s", data.ErrMissingFile, what, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", what, err)
	}
	return string(content), nil
}
