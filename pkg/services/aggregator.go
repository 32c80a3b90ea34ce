package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kerbaras/storysite/pkg/config"
	"github.com/kerbaras/storysite/pkg/data"
	"github.com/kerbaras/storysite/pkg/parser"
	"github.com/kerbaras/storysite/pkg/sources"
)

// Skipped is a story left out of the bundle and why.
type Skipped struct {
	Slug   string
	Reason error
}

// Report collects the non-fatal problems of an aggregation.
type Report struct {
	Skipped []Skipped
	// Unknown lists ordered slugs with no source folder.
	Unknown []string
}

// Aggregator parses ordered stories into a bundle.
type Aggregator struct {
	source    sources.Source
	parser    *parser.Parser
	languages []config.Language
	logger    *zap.Logger
	progress  ProgressFunc
	now       func() time.Time
}

func NewAggregator(source sources.Source, p *parser.Parser, languages []config.Language) *Aggregator {
	return &Aggregator{
		source:    source,
		parser:    p,
		languages: languages,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
}

// Aggregate parses every ordered slug that has a folder in dirs. Stories with
// a missing language file or malformed frontmatter are skipped and reported;
// only an empty result is an error.
func (a *Aggregator) Aggregate(order []string, dirs map[string]string) (*data.Bundle, *Report, error) {
	report := &Report{}
	var stories []data.Story

	total := 0
	for _, slug := range order {
		if _, ok := dirs[slug]; ok {
			total++
		}
	}

	current := 0
	for _, slug := range order {
		dir, ok := dirs[slug]
		if !ok {
			report.Unknown = append(report.Unknown, slug)
			continue
		}
		current++

		a.progress.send(BuildProgress{
			Stage:   StageAggregate,
			Slug:    slug,
			Current: current,
			Total:   total,
			Status:  StatusProcessing,
		})

		story, err := a.parseStory(slug, dir)
		if err != nil {
			a.logger.Warn("skipping story", zap.String("slug", slug), zap.String("dir", dir), zap.Error(err))
			report.Skipped = append(report.Skipped, Skipped{Slug: slug, Reason: err})
			a.progress.send(BuildProgress{
				Stage:   StageAggregate,
				Slug:    slug,
				Current: current,
				Total:   total,
				Status:  StatusSkipped,
				Error:   err,
			})
			continue
		}

		stories = append(stories, *story)
		a.progress.send(BuildProgress{
			Stage:   StageAggregate,
			Slug:    slug,
			Current: current,
			Total:   total,
			Status:  StatusComplete,
			Message: a.titles(story),
		})
	}

	if len(stories) == 0 {
		return nil, report, data.ErrEmptyResult
	}

	a.logger.Debug("aggregated stories", zap.Int("valid", len(stories)), zap.Int("skipped", len(report.Skipped)))
	return data.NewBundle(stories, a.now()), report, nil
}

func (a *Aggregator) parseStory(slug, dir string) (*data.Story, error) {
	story := &data.Story{Slug: slug, Translations: make(map[string]data.Translation, len(a.languages))}

	// Locate every language file before parsing any of them.
	paths := make([]string, len(a.languages))
	for i, lang := range a.languages {
		path, err := a.source.StoryFile(dir, lang.Code)
		if err != nil {
			return nil, fmt.Errorf("missing %s file: %w", lang.Name, err)
		}
		paths[i] = path
	}

	for i, lang := range a.languages {
		doc, err := a.parser.ParseFile(paths[i])
		if err != nil {
			return nil, err
		}
		story.Translations[lang.Code] = data.Translation{
			Title:   doc.Title(lang.DefaultTitle),
			Content: doc.Content,
		}
	}
	return story, nil
}

func (a *Aggregator) titles(story *data.Story) string {
	msg := ""
	for i, lang := range a.languages {
		if i > 0 {
			msg += " / "
		}
		msg += story.Get(lang.Code).Title
	}
	return msg
}
