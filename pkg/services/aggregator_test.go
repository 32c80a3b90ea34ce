package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kerbaras/storysite/pkg/data"
	"github.com/kerbaras/storysite/pkg/parser"
	"github.com/kerbaras/storysite/pkg/sources"
)

func newTestAggregator(t *testing.T) (*Aggregator, *observer.ObservedLogs, map[string]string) {
	t.Helper()
	cfg := newProject(t)
	dirs := map[string]string{
		"a": addStory(t, cfg, "a", storyFiles("a")),
		"b": addStory(t, cfg, "b", map[string]string{"en": storyFiles("b")["en"]}),
		"c": addStory(t, cfg, "c", storyFiles("c")),
	}

	p, err := parser.New(cfg.BodyFormat)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	agg := NewAggregator(sources.NewTree(cfg), p, cfg.Languages)
	agg.logger = zap.New(core)
	agg.now = func() time.Time { return fixedTime }
	return agg, logs, dirs
}

func TestAggregateFollowsOrder(t *testing.T) {
	agg, _, dirs := newTestAggregator(t)

	bundle, report, err := agg.Aggregate([]string{"c", "a"}, dirs)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a"}, bundle.Slugs())
	assert.Equal(t, 2, bundle.Metadata.StoryCount)
	assert.Equal(t, fixedTime, bundle.Metadata.GeneratedAt)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Unknown)

	c := bundle.Stories[0]
	assert.Equal(t, "Story c", c.Get("en").Title)
	assert.Equal(t, "داستان c", c.Get("fa").Title)
	assert.Equal(t, "<p>Hello from c.</p>", c.Get("en").Content)
}

func TestAggregateSkipsIncompleteStory(t *testing.T) {
	agg, logs, dirs := newTestAggregator(t)

	bundle, report, err := agg.Aggregate([]string{"c", "a", "b"}, dirs)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a"}, bundle.Slugs())
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "b", report.Skipped[0].Slug)
	assert.ErrorIs(t, report.Skipped[0].Reason, data.ErrMissingFile)

	warnings := logs.FilterMessage("skipping story").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, "b", warnings[0].ContextMap()["slug"])
}

func TestAggregateSkipsMalformedStory(t *testing.T) {
	agg, _, dirs := newTestAggregator(t)
	cfg := newProject(t)
	dirs["bad"] = addStory(t, cfg, "bad", map[string]string{
		"en": "no frontmatter here",
		"fa": storyFiles("bad")["fa"],
	})

	bundle, report, err := agg.Aggregate([]string{"bad", "a"}, dirs)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, bundle.Slugs())
	require.Len(t, report.Skipped, 1)
	assert.ErrorIs(t, report.Skipped[0].Reason, data.ErrFormat)
}

func TestAggregateReportsUnknownSlugs(t *testing.T) {
	agg, _, dirs := newTestAggregator(t)

	bundle, report, err := agg.Aggregate([]string{"ghost", "a"}, dirs)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, bundle.Slugs())
	assert.Equal(t, []string{"ghost"}, report.Unknown)
}

func TestAggregateEmptyResult(t *testing.T) {
	agg, _, dirs := newTestAggregator(t)

	bundle, report, err := agg.Aggregate([]string{"b"}, dirs)
	assert.ErrorIs(t, err, data.ErrEmptyResult)
	assert.Nil(t, bundle)
	require.NotNil(t, report)
	assert.Len(t, report.Skipped, 1)
}

func TestAggregateProgress(t *testing.T) {
	agg, _, dirs := newTestAggregator(t)

	var events []BuildProgress
	agg.progress = func(p BuildProgress) { events = append(events, p) }

	_, _, err := agg.Aggregate([]string{"a", "b"}, dirs)
	require.NoError(t, err)

	var statuses []string
	for _, e := range events {
		assert.Equal(t, StageAggregate, e.Stage)
		assert.Equal(t, 2, e.Total)
		statuses = append(statuses, e.Slug+":"+e.Status)
	}
	assert.Equal(t, []string{
		"a:" + StatusProcessing, "a:" + StatusComplete,
		"b:" + StatusProcessing, "b:" + StatusSkipped,
	}, statuses)
	assert.Equal(t, "Story a / داستان a", events[1].Message)
}
