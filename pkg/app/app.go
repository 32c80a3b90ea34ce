package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/storysite/pkg/app/components"
	"github.com/kerbaras/storysite/pkg/app/screens"
	"github.com/kerbaras/storysite/pkg/data"
	"github.com/kerbaras/storysite/pkg/services"
)

// App is the interactive order editor.
type App struct {
	builder *services.Builder
}

func NewApp(builder *services.Builder) *App {
	return &App{builder: builder}
}

func (a *App) Run() error {
	model := screens.NewOrderScreen(a.builder.OrderFile().Path, a.Stories, a.builder.OrderFile().Rewrite)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Stories returns the planned order, with titles taken from the last
// generated bundle when there is one.
func (a *App) Stories() ([]components.StoryListItem, error) {
	entries, err := a.builder.Plan()
	if err != nil {
		return nil, err
	}

	titles := map[string]string{}
	bundle, err := data.ReadBundle(a.builder.DataFile())
	switch {
	case err == nil:
		lang := a.builder.Config().Primary().Code
		for _, story := range bundle.Stories {
			titles[story.Slug] = story.Get(lang).Title
		}
	case !errors.Is(err, data.ErrMissingFile):
		return nil, err
	}

	items := make([]components.StoryListItem, len(entries))
	for i, entry := range entries {
		items[i] = components.StoryListItem{
			Slug:   entry.Slug,
			Title:  titles[entry.Slug],
			Status: string(entry.Status),
		}
	}
	return items, nil
}
