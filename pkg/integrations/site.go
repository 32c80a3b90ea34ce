package integrations

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

// Page is one generated file.
type Page struct {
	Lang string
	Slug string
	Path string
}

// RenderResult lists what Render wrote.
type RenderResult struct {
	Pages []Page
	Index string
	// Scaffolded lists custom.css files and images folders created in this run.
	Scaffolded []string
}

// Site renders story pages and the landing page into OutputDir.
type Site struct {
	OutputDir string
	Languages []config.Language
	CustomCSS string
	Templates *Templates
}

func NewSite(cfg *config.Config, templates *Templates) *Site {
	return &Site{
		OutputDir: cfg.Path(cfg.OutputDir),
		Languages: cfg.Languages,
		CustomCSS: cfg.CustomCSS,
		Templates: templates,
	}
}

// StoryDir is the folder holding a story's page for one language.
func (s *Site) StoryDir(lang, slug string) string {
	return filepath.Join(s.OutputDir, lang, "stories", slug)
}

// Render writes every story page, in every language, and the landing page.
// Pages are always overwritten; custom.css and images/ are only created
// when missing.
func (s *Site) Render(bundle *data.Bundle) (*RenderResult, error) {
	if s.Templates == nil {
		return nil, fmt.Errorf("%w: templates not loaded", data.ErrMissingFile)
	}

	result := &RenderResult{}
	for i, story := range bundle.Stories {
		for _, lang := range s.Languages {
			dir := s.StoryDir(lang.Code, story.Slug)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create story directory: %w", err)
			}

			path := filepath.Join(dir, "index.html")
			page := s.RenderStory(bundle, i, lang)
			if err := os.WriteFile(path, []byte(page), 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", path, err)
			}
			result.Pages = append(result.Pages, Page{Lang: lang.Code, Slug: story.Slug, Path: path})

			created, err := s.scaffold(dir)
			if err != nil {
				return nil, err
			}
			result.Scaffolded = append(result.Scaffolded, created...)
		}
	}

	indexPath := filepath.Join(s.OutputDir, "index.html")
	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(indexPath, []byte(s.RenderIndex(bundle)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write landing page: %w", err)
	}
	result.Index = indexPath

	return result, nil
}

// RenderStory fills the language template for the story at index i. All
// placeholders are replaced in a single pass, so story text that happens to
// contain a placeholder token is left alone.
func (s *Site) RenderStory(bundle *data.Bundle, i int, lang config.Language) string {
	story := bundle.Stories[i]
	prev, next := bundle.Neighbors(i)
	tr := story.Get(lang.Code)

	r := strings.NewReplacer(
		PlaceholderTitle, tr.Title,
		PlaceholderSlug, story.Slug,
		PlaceholderContent, tr.Content,
		PlaceholderPrev, NavLink(prev, lang.Code, lang.PrevLabel),
		PlaceholderNext, NavLink(next, lang.Code, lang.NextLabel),
		PlaceholderLang, lang.Code,
		PlaceholderDir, lang.Direction(),
	)
	return r.Replace(s.Templates.Stories[lang.Code])
}

// NavLink links to a neighbouring story, or renders the disabled marker when
// there is none.
func NavLink(target *data.Story, lang, label string) string {
	if target == nil {
		return fmt.Sprintf(`<span class="story-nav-link story-nav-disabled">%s</span>`, label)
	}
	return fmt.Sprintf(`<a class="story-nav-link" href="../%s/index.html">%s: %s</a>`,
		target.Slug, label, target.Get(lang).Title)
}

// RenderIndex fills the landing page with one story list per language.
func (s *Site) RenderIndex(bundle *data.Bundle) string {
	pairs := make([]string, 0, 2*len(s.Languages))
	for _, lang := range s.Languages {
		pairs = append(pairs, lang.ListPlaceholder(), StoryList(bundle, lang.Code))
	}
	return strings.NewReplacer(pairs...).Replace(s.Templates.Index)
}

// StoryList renders the landing page list items for one language.
func StoryList(bundle *data.Bundle, lang string) string {
	items := make([]string, len(bundle.Stories))
	for i, story := range bundle.Stories {
		items[i] = fmt.Sprintf(`          <li>
            <a href="%s/stories/%s/index.html">
              <span>%s</span>
            </a>
          </li>`, lang, story.Slug, story.Get(lang).Title)
	}
	return strings.Join(items, "\n")
}

func (s *Site) scaffold(dir string) ([]string, error) {
	var created []string

	css := filepath.Join(dir, "custom.css")
	if _, err := os.Stat(css); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(css, []byte(s.CustomCSS), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", css, err)
		}
		created = append(created, css)
	}

	images := filepath.Join(dir, "images")
	if _, err := os.Stat(images); errors.Is(err, fs.ErrNotExist) {
		if err := os.Mkdir(images, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", images, err)
		}
		created = append(created, images)
	}

	return created, nil
}
