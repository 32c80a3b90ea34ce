package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/storysite/pkg/app/components"
	"github.com/kerbaras/storysite/pkg/app/styles"
)

// LoadFunc returns the stories in their current order.
type LoadFunc func() ([]components.StoryListItem, error)

// SaveFunc persists a new order.
type SaveFunc func(slugs []string) error

// OrderScreen lets the user rearrange the story order and save it.
type OrderScreen struct {
	load LoadFunc
	save SaveFunc
	list *components.StoryList
	path string

	grabbed     bool
	dirty       bool
	confirmQuit bool
	status      string
	err         error

	width  int
	height int
}

func NewOrderScreen(path string, load LoadFunc, save SaveFunc) *OrderScreen {
	return &OrderScreen{
		load: load,
		save: save,
		list: components.NewStoryList(),
		path: path,
	}
}

func (s *OrderScreen) Init() tea.Cmd {
	return s.loadStories
}

func (s *OrderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.list.Width = msg.Width - 4
		s.list.Height = msg.Height - 8

	case tea.KeyMsg:
		key := msg.String()
		if key != "q" {
			s.confirmQuit = false
		}

		switch key {
		case "ctrl+c":
			return s, tea.Quit
		case "q", "esc":
			if s.dirty && !s.confirmQuit {
				s.confirmQuit = true
				s.status = "Unsaved changes. Press q again to quit without saving."
				return s, nil
			}
			return s, tea.Quit
		case "up", "k":
			if s.grabbed {
				s.moveSelected(-1)
			} else {
				s.list.Prev()
			}
		case "down", "j":
			if s.grabbed {
				s.moveSelected(1)
			} else {
				s.list.Next()
			}
		case "shift+up", "K":
			s.moveSelected(-1)
		case "shift+down", "J":
			s.moveSelected(1)
		case "home", "g":
			if s.grabbed {
				s.moveSelected(-len(s.list.Items))
			} else {
				s.list.SelectedIndex = 0
			}
		case "end", "G":
			if s.grabbed {
				s.moveSelected(len(s.list.Items))
			} else if len(s.list.Items) > 0 {
				s.list.SelectedIndex = len(s.list.Items) - 1
			}
		case " ", "enter":
			s.grabbed = !s.grabbed
		case "s", "ctrl+s":
			return s, s.saveOrder(s.list.Slugs())
		case "r":
			s.dirty = false
			s.grabbed = false
			return s, s.loadStories
		}

	case storiesLoadedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.list.SetItems(msg.items)
			s.status = fmt.Sprintf("%d stories", len(msg.items))
		}

	case orderSavedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.dirty = false
			s.status = "Saved " + s.path
		}
	}

	return s, nil
}

func (s *OrderScreen) View() string {
	header := styles.TitleStyle.Render("📚 Story order")
	if s.dirty {
		header += styles.StatusWarning.Render(" (modified)")
	}

	var message string
	if s.err != nil {
		message = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
	} else if s.status != "" {
		message = styles.MutedStyle.Render(s.status)
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: select • space: grab/drop • K/J: move • g/G: top/bottom • s: save • r: reload • q: quit",
	)

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", header, message, s.list.View(s.grabbed), help)
}

// Slugs returns the order as currently arranged on screen.
func (s *OrderScreen) Slugs() []string {
	return s.list.Slugs()
}

func (s *OrderScreen) Dirty() bool {
	return s.dirty
}

func (s *OrderScreen) moveSelected(delta int) {
	if s.list.Move(delta) {
		s.dirty = true
		s.status = ""
	}
}

// Messages
type storiesLoadedMsg struct {
	items []components.StoryListItem
	err   error
}

type orderSavedMsg struct {
	err error
}

// Commands
func (s *OrderScreen) loadStories() tea.Msg {
	items, err := s.load()
	return storiesLoadedMsg{items: items, err: err}
}

func (s *OrderScreen) saveOrder(slugs []string) tea.Cmd {
	return func() tea.Msg {
		return orderSavedMsg{err: s.save(slugs)}
	}
}
