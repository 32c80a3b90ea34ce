package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kerbaras/storysite/pkg/app/styles"
	"github.com/kerbaras/storysite/pkg/services"
)

// BuildLog turns build progress events into console lines and keeps the
// tallies needed for the final summary.
type BuildLog struct {
	// Verbose also prints every page and scaffolded file.
	Verbose bool

	root    string
	pages   int
	skipped []services.BuildProgress
}

func NewBuildLog(root string) *BuildLog {
	return &BuildLog{root: root}
}

// Update records an event and returns the line to print, or "" when the
// event is not worth a line of its own.
func (l *BuildLog) Update(p services.BuildProgress) string {
	switch p.Stage {
	case services.StageDiscover:
		switch p.Status {
		case services.StatusProcessing:
			return "🔍 Scanning stories..."
		case services.StatusComplete:
			return fmt.Sprintf("📂 Found %d story folders", p.Total)
		case services.StatusSkipped:
			l.skipped = append(l.skipped, p)
			return styles.StatusWarning.Render(fmt.Sprintf("⚠️  %s: %s", l.rel(p.Path), p.Error))
		}

	case services.StageOrder:
		switch p.Status {
		case services.StatusCreated:
			return fmt.Sprintf("📝 Created %s with %d stories", l.rel(p.Path), p.Total)
		case services.StatusComplete:
			return fmt.Sprintf("➕ %s in %s", capitalize(p.Message), l.rel(p.Path))
		case services.StatusNote:
			return styles.StatusWarning.Render("ℹ️  " + capitalize(p.Message))
		}

	case services.StageAggregate:
		switch p.Status {
		case services.StatusComplete:
			bar := renderProgressBar(p.Current, p.Total, 12)
			return fmt.Sprintf("  %s %s %d/%d %s %s", styles.StatusCompleted.Render("✓"), bar,
				p.Current, p.Total, p.Slug, styles.MutedStyle.Render(p.Message))
		case services.StatusSkipped:
			l.skipped = append(l.skipped, p)
			return styles.StatusError.Render(fmt.Sprintf("  ✗ Skipping %s: %s", p.Slug, p.Error))
		}

	case services.StageData:
		if p.Status == services.StatusComplete {
			return fmt.Sprintf("💾 Wrote %s (%s)", l.rel(p.Path), p.Message)
		}

	case services.StageRender:
		switch {
		case p.Status == services.StatusCreated:
			if l.Verbose {
				return styles.MutedStyle.Render("  ✨ " + l.rel(p.Path))
			}
		case p.Slug != "":
			l.pages++
			if l.Verbose {
				return styles.MutedStyle.Render("  📄 " + l.rel(p.Path))
			}
		case p.Status == services.StatusComplete:
			return fmt.Sprintf("🏠 Landing page: %s", l.rel(p.Path))
		}
	}
	return ""
}

// Skipped returns every skipped folder or story seen so far.
func (l *BuildLog) Skipped() []services.BuildProgress {
	return l.skipped
}

// Summary renders the closing block for a finished build.
func (l *BuildLog) Summary(result *services.BuildResult) string {
	var b strings.Builder

	stories := 0
	if result != nil && result.Bundle != nil {
		stories = len(result.Bundle.Stories)
	}
	b.WriteString(styles.StatusCompleted.Render(
		fmt.Sprintf("✅ Built %d stories, %d pages", stories, l.pages)))

	if len(l.skipped) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("⚠️  %d skipped", len(l.skipped))))
		for _, p := range l.skipped {
			name := p.Slug
			if name == "" {
				name = l.rel(p.Path)
			}
			b.WriteString("\n")
			b.WriteString(styles.MutedStyle.Render("   - " + name))
		}
	}
	return b.String()
}

func (l *BuildLog) rel(path string) string {
	if l.root == "" || path == "" {
		return path
	}
	if rel, err := filepath.Rel(l.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}
