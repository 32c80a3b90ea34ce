package services

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kerbaras/storysite/pkg/config"
	"github.com/kerbaras/storysite/pkg/data"
	"github.com/kerbaras/storysite/pkg/integrations"
	"github.com/kerbaras/storysite/pkg/order"
	"github.com/kerbaras/storysite/pkg/parser"
	"github.com/kerbaras/storysite/pkg/sources"
)

// Builder runs the whole pipeline: discover, reconcile the order, aggregate
// the bundle, then render pages from the bundle file.
type Builder struct {
	cfg       *config.Config
	source    sources.Source
	orderFile *order.File
	parser    *parser.Parser
	logger    *zap.Logger
	progress  ProgressFunc
	now       func() time.Time
}

type Option func(*Builder)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

func WithProgress(f ProgressFunc) Option {
	return func(b *Builder) { b.progress = f }
}

func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func WithSource(source sources.Source) Option {
	return func(b *Builder) { b.source = source }
}

func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	p, err := parser.New(cfg.BodyFormat)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:       cfg,
		source:    sources.NewTree(cfg),
		orderFile: order.NewFile(cfg.Path(cfg.OrderFile), cfg.Path(cfg.LegacyOrderFile)),
		parser:    p,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Builder) Config() *config.Config { return b.cfg }
func (b *Builder) OrderFile() *order.File { return b.orderFile }
func (b *Builder) Source() sources.Source { return b.source }
func (b *Builder) DataFile() string { return b.cfg.Path(b.cfg.DataFile) }
func (b *Builder) TemplatesDir() string { return b.cfg.Path(b.cfg.TemplatesDir) }

// BuildResult summarizes a build.
type BuildResult struct {
	Discovery *sources.Discovery
	Order     *order.Result
	Report    *Report
	Bundle    *data.Bundle
	DataFile  string
	Render    *integrations.RenderResult
}

// Build runs the full pipeline. Templates are loaded first so that a missing
// template aborts the run before anything is written.
func (b *Builder) Build() (*BuildResult, error) {
	templates, err := b.LoadTemplates()
	if err != nil {
		return nil, err
	}

	result, err := b.Collect()
	if err != nil {
		return nil, err
	}

	rendered, err := b.Render(templates)
	if err != nil {
		return nil, err
	}
	result.Render = rendered
	return result, nil
}

// LoadTemplates reads the story and landing page templates.
func (b *Builder) LoadTemplates() (*integrations.Templates, error) {
	return integrations.LoadTemplates(b.TemplatesDir(), b.cfg.Languages, b.cfg.IndexTemplate)
}

// Collect discovers stories, reconciles the order file, parses the stories
// and writes the data bundle.
func (b *Builder) Collect() (*BuildResult, error) {
	discovery, err := b.discover()
	if err != nil {
		return nil, err
	}

	slugs := discovery.Slugs()
	sort.Strings(slugs)

	reconciled, err := b.orderFile.Reconcile(slugs)
	if err != nil {
		return nil, err
	}
	b.reportOrder(reconciled)

	aggregator := NewAggregator(b.source, b.parser, b.cfg.Languages)
	aggregator.logger = b.logger
	aggregator.progress = b.progress
	aggregator.now = b.now

	bundle, report, err := aggregator.Aggregate(reconciled.Order, discovery.Dirs())
	if err != nil {
		return nil, err
	}

	path := b.DataFile()
	if err := data.WriteBundle(path, bundle); err != nil {
		return nil, err
	}
	b.progress.send(BuildProgress{
		Stage:   StageData,
		Status:  StatusComplete,
		Path:    path,
		Total:   len(bundle.Stories),
		Message: fmt.Sprintf("%d stories", len(bundle.Stories)),
	})
	b.logger.Info("wrote story data", zap.String("path", path), zap.Int("stories", len(bundle.Stories)))

	return &BuildResult{
		Discovery: discovery,
		Order:     reconciled,
		Report:    report,
		Bundle:    bundle,
		DataFile:  path,
	}, nil
}

// Render reads the data bundle from disk and writes every page.
func (b *Builder) Render(templates *integrations.Templates) (*integrations.RenderResult, error) {
	bundle, err := data.ReadBundle(b.DataFile())
	if err != nil {
		return nil, err
	}

	site := integrations.NewSite(b.cfg, templates)
	rendered, err := site.Render(bundle)
	if err != nil {
		return nil, err
	}

	for i, page := range rendered.Pages {
		b.progress.send(BuildProgress{
			Stage:   StageRender,
			Slug:    page.Slug,
			Current: i + 1,
			Total:   len(rendered.Pages),
			Status:  StatusComplete,
			Path:    page.Path,
		})
	}
	for _, path := range rendered.Scaffolded {
		b.progress.send(BuildProgress{Stage: StageRender, Status: StatusCreated, Path: path})
	}
	b.progress.send(BuildProgress{
		Stage:   StageRender,
		Status:  StatusComplete,
		Path:    rendered.Index,
		Total:   len(bundle.Stories),
		Message: "landing page",
	})

	return rendered, nil
}

func (b *Builder) discover() (*sources.Discovery, error) {
	b.progress.send(BuildProgress{Stage: StageDiscover, Status: StatusProcessing})

	discovery, err := b.source.Discover()
	if err != nil {
		return nil, err
	}

	for _, dup := range discovery.Duplicates {
		err := fmt.Errorf("slug %q already used by another folder", dup.Slug)
		b.logger.Warn("duplicate story slug", zap.String("slug", dup.Slug), zap.String("dir", dup.Dir))
		b.progress.send(BuildProgress{Stage: StageDiscover, Slug: dup.Slug, Status: StatusSkipped, Path: dup.Dir, Error: err})
	}

	if len(discovery.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no story directories found (expected folders with files for %v)",
			data.ErrEmptyResult, b.cfg.LanguageCodes())
	}

	b.progress.send(BuildProgress{
		Stage:  StageDiscover,
		Status: StatusComplete,
		Total:  len(discovery.Candidates),
	})
	return discovery, nil
}

func (b *Builder) reportOrder(r *order.Result) {
	path := b.orderFile.Path
	switch {
	case r.Origin == order.OriginNone:
		b.progress.send(BuildProgress{Stage: StageOrder, Status: StatusCreated, Path: path, Total: len(r.Order)})
	case r.Origin == order.OriginLegacy:
		b.progress.send(BuildProgress{Stage: StageOrder, Status: StatusNote, Path: path,
			Message: "migrated legacy order file from " + b.orderFile.LegacyPath})
	}
	if r.Origin != order.OriginNone && len(r.Added) > 0 {
		b.progress.send(BuildProgress{Stage: StageOrder, Status: StatusComplete, Path: path, Total: len(r.Added),
			Message: fmt.Sprintf("added %d new stories", len(r.Added))})
	}
	if len(r.Unknown) > 0 {
		b.progress.send(BuildProgress{Stage: StageOrder, Status: StatusNote, Path: path,
			Message: fmt.Sprintf("listed but not found: %v", r.Unknown)})
	}
	b.logger.Debug("reconciled story order",
		zap.Stringer("origin", r.Origin),
		zap.Strings("added", r.Added),
		zap.Strings("unknown", r.Unknown),
		zap.Bool("written", r.Written))
}

// EntryStatus classifies one line of the story order.
type EntryStatus string

const (
	EntryOK      EntryStatus = "ok"
	EntryMissing EntryStatus = "missing content"
	EntryNew     EntryStatus = "new"
)

// PlanEntry is one story in presentation order.
type PlanEntry struct {
	Position int
	Slug     string
	Dir      string
	Status   EntryStatus
}

// Plan returns the order the next build would use without writing anything.
func (b *Builder) Plan() ([]PlanEntry, error) {
	discovery, err := b.source.Discover()
	if err != nil {
		return nil, err
	}
	lines, _, err := b.orderFile.Load()
	if err != nil {
		return nil, err
	}

	persisted := len(order.Parse(lines))
	var slugs []string
	if lines == nil {
		_, slugs = order.Create(discovery.Slugs())
		persisted = 0
	} else {
		_, slugs, _ = order.Merge(lines, discovery.Slugs())
	}

	dirs := discovery.Dirs()
	entries := make([]PlanEntry, len(slugs))
	for i, slug := range slugs {
		entry := PlanEntry{Position: i + 1, Slug: slug, Dir: dirs[slug], Status: EntryOK}
		switch {
		case entry.Dir == "":
			entry.Status = EntryMissing
		case i >= persisted:
			entry.Status = EntryNew
		}
		entries[i] = entry
	}
	return entries, nil
}
