package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/storysite/pkg/app/styles"
)

type StoryListItem struct {
	Slug   string
	Title  string
	Status string
}

// StoryList is a selectable list of stories whose entries can be reordered.
type StoryList struct {
	Items         []StoryListItem
	SelectedIndex int
	Width         int
	Height        int
	offset        int
}

func NewStoryList() *StoryList {
	return &StoryList{
		Items:         []StoryListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
	}
}

func (l *StoryList) SetItems(items []StoryListItem) {
	l.Items = items
	if l.SelectedIndex >= len(items) && len(items) > 0 {
		l.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		l.SelectedIndex = 0
	}
}

func (l *StoryList) Next() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.Items) {
		l.SelectedIndex = 0
	}
}

func (l *StoryList) Prev() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.Items) - 1
	}
}

func (l *StoryList) Selected() *StoryListItem {
	if len(l.Items) == 0 || l.SelectedIndex >= len(l.Items) {
		return nil
	}
	return &l.Items[l.SelectedIndex]
}

// Move shifts the selected item by delta positions, clamped to the list
// bounds, and keeps it selected. It reports whether anything moved.
func (l *StoryList) Move(delta int) bool {
	if len(l.Items) < 2 {
		return false
	}
	to := l.SelectedIndex + delta
	if to < 0 {
		to = 0
	}
	if to >= len(l.Items) {
		to = len(l.Items) - 1
	}
	if to == l.SelectedIndex {
		return false
	}

	item := l.Items[l.SelectedIndex]
	if to < l.SelectedIndex {
		copy(l.Items[to+1:l.SelectedIndex+1], l.Items[to:l.SelectedIndex])
	} else {
		copy(l.Items[l.SelectedIndex:to], l.Items[l.SelectedIndex+1:to+1])
	}
	l.Items[to] = item
	l.SelectedIndex = to
	return true
}

// Slugs returns the slugs in their current order.
func (l *StoryList) Slugs() []string {
	slugs := make([]string, len(l.Items))
	for i, item := range l.Items {
		slugs[i] = item.Slug
	}
	return slugs
}

func (l *StoryList) View(grabbed bool) string {
	if len(l.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No stories yet")
		return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	// Keep the selection on screen.
	visible := l.Height
	if visible <= 0 || visible > len(l.Items) {
		visible = len(l.Items)
	}
	if l.SelectedIndex < l.offset {
		l.offset = l.SelectedIndex
	}
	if l.SelectedIndex >= l.offset+visible {
		l.offset = l.SelectedIndex - visible + 1
	}
	if l.offset+visible > len(l.Items) {
		l.offset = len(l.Items) - visible
	}

	var b strings.Builder
	for i := l.offset; i < l.offset+visible; i++ {
		item := l.Items[i]

		cursor := "  "
		rowStyle := styles.TextStyle
		if i == l.SelectedIndex {
			cursor = "▸ "
			rowStyle = styles.SelectedStyle
			if grabbed {
				rowStyle = styles.GrabbedStyle
			}
		}

		title := item.Title
		if title == "" {
			title = "-"
		}
		row := fmt.Sprintf("%s%3d. %-30s %s", cursor, i+1, truncate(item.Slug, 30), styles.MutedStyle.Render(truncate(title, 40)))
		b.WriteString(rowStyle.Render(row))
		if item.Status != "" && item.Status != "ok" {
			b.WriteString(" ")
			b.WriteString(styles.StatusStyle(item.Status).Render("[" + item.Status + "]"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
