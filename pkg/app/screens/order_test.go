package screens

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/storysite/pkg/app/components"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type fakeStore struct {
	items []components.StoryListItem
	saved []string
	err   error
}

func (f *fakeStore) load() ([]components.StoryListItem, error) {
	items := make([]components.StoryListItem, len(f.items))
	copy(items, f.items)
	return items, nil
}

func (f *fakeStore) save(slugs []string) error {
	if f.err != nil {
		return f.err
	}
	f.saved = slugs
	return nil
}

// send feeds msg to the screen and returns the resulting command.
func send(t *testing.T, s *OrderScreen, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(msg)
	return cmd
}

func newLoadedScreen(t *testing.T, store *fakeStore) *OrderScreen {
	t.Helper()
	s := NewOrderScreen("docs/stories-order.txt", store.load, store.save)
	send(t, s, tea.WindowSizeMsg{Width: 100, Height: 30})
	send(t, s, s.Init()())
	return s
}

func testStore() *fakeStore {
	return &fakeStore{items: []components.StoryListItem{
		{Slug: "a", Status: "ok"},
		{Slug: "b", Status: "ok"},
		{Slug: "c", Status: "new"},
	}}
}

func TestOrderScreenLoads(t *testing.T) {
	s := newLoadedScreen(t, testStore())

	assert.Equal(t, []string{"a", "b", "c"}, s.Slugs())
	assert.False(t, s.Dirty())
	assert.Contains(t, s.View(), "3 stories")
}

func TestOrderScreenGrabAndMove(t *testing.T) {
	store := testStore()
	s := newLoadedScreen(t, store)

	send(t, s, tea.KeyMsg{Type: tea.KeyDown})
	send(t, s, tea.KeyMsg{Type: tea.KeyEnter})
	send(t, s, tea.KeyMsg{Type: tea.KeyUp})
	send(t, s, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"b", "a", "c"}, s.Slugs())
	assert.True(t, s.Dirty())
	assert.Contains(t, s.View(), "(modified)")

	cmd := send(t, s, keyRunes("s"))
	require.NotNil(t, cmd)
	send(t, s, cmd())

	assert.Equal(t, []string{"b", "a", "c"}, store.saved)
	assert.False(t, s.Dirty())
	assert.Contains(t, s.View(), "Saved docs/stories-order.txt")
}

func TestOrderScreenMoveKeys(t *testing.T) {
	s := newLoadedScreen(t, testStore())

	send(t, s, keyRunes("G"))
	send(t, s, keyRunes("K"))
	send(t, s, keyRunes("K"))

	assert.Equal(t, []string{"c", "a", "b"}, s.Slugs())
}

func TestOrderScreenSaveError(t *testing.T) {
	store := testStore()
	store.err = errors.New("disk full")
	s := newLoadedScreen(t, store)

	send(t, s, keyRunes("J"))
	send(t, s, send(t, s, keyRunes("s"))())

	assert.True(t, s.Dirty())
	assert.Contains(t, s.View(), "disk full")
}

func TestOrderScreenQuitConfirmsUnsaved(t *testing.T) {
	s := newLoadedScreen(t, testStore())

	assert.NotNil(t, send(t, s, keyRunes("q")), "clean screen quits at once")

	send(t, s, keyRunes("J"))
	assert.Nil(t, send(t, s, keyRunes("q")))
	assert.True(t, strings.Contains(s.View(), "Unsaved changes"))
	assert.NotNil(t, send(t, s, keyRunes("q")))
}

func TestOrderScreenReload(t *testing.T) {
	s := newLoadedScreen(t, testStore())

	send(t, s, keyRunes("J"))
	require.True(t, s.Dirty())

	send(t, s, send(t, s, keyRunes("r"))())

	assert.False(t, s.Dirty())
	assert.Equal(t, []string{"a", "b", "c"}, s.Slugs())
}
