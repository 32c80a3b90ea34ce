package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/storysite/pkg/config"
)

func newScaffoldTree(t *testing.T) *Tree {
	t.Helper()
	cfg := config.Default()
	cfg.Root = t.TempDir()
	require.NoError(t, os.MkdirAll(cfg.Path(cfg.SourceDir), 0755))
	return NewTree(cfg)
}

func TestScaffoldSkeleton(t *testing.T) {
	tree := newScaffoldTree(t)

	created, err := tree.Scaffold("series/one", "First")
	require.NoError(t, err)

	dir := filepath.Join(tree.Root, "series", "one")
	assert.Equal(t, []string{
		filepath.Join(dir, "story-en.md"),
		filepath.Join(dir, "story-fa.md"),
	}, created)

	content, err := os.ReadFile(created[0])
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: First\n---\n\n", string(content))

	discovery, err := tree.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"series-one"}, discovery.Slugs())
}

func TestScaffoldFromTemplateFolder(t *testing.T) {
	tree := newScaffoldTree(t)
	tpl := filepath.Join(tree.Root, tree.Exclude)
	require.NoError(t, os.MkdirAll(filepath.Join(tpl, "notes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tpl, "story-en.md"), []byte("---\ntitle: T\n---\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tpl, "story-fa.txt"), []byte("---\ntitle: ت\n---\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tpl, "notes", "todo.txt"), []byte("ideas"), 0644))

	created, err := tree.Scaffold("new-story", "ignored")
	require.NoError(t, err)

	assert.Len(t, created, 3)
	assert.FileExists(t, filepath.Join(tree.Root, "new-story", "story-fa.txt"))
	assert.FileExists(t, filepath.Join(tree.Root, "new-story", "notes", "todo.txt"))
}

func TestScaffoldNeverOverwrites(t *testing.T) {
	tree := newScaffoldTree(t)
	dir := filepath.Join(tree.Root, "kept")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "story-en.txt"), []byte("mine"), 0644))

	created, err := tree.Scaffold("kept", "")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "story-fa.md")}, created)
	content, err := os.ReadFile(filepath.Join(dir, "story-en.txt"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(content))
	assert.NoFileExists(t, filepath.Join(dir, "story-en.md"))
}

func TestScaffoldRejectsInvalidFolders(t *testing.T) {
	tree := newScaffoldTree(t)

	for _, rel := range []string{"", ".", "../outside", "/abs", ".hidden", "story-template", "a/.git"} {
		t.Run(rel, func(t *testing.T) {
			_, err := tree.Scaffold(rel, "")
			assert.Error(t, err)
		})
	}
}

func TestScaffoldCompletesPartialTemplate(t *testing.T) {
	tree := newScaffoldTree(t)
	tpl := filepath.Join(tree.Root, tree.Exclude)
	require.NoError(t, os.MkdirAll(tpl, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tpl, "story-en.md"), []byte("---\ntitle: T\n---\n"), 0644))

	created, err := tree.Scaffold("partial", "P")
	require.NoError(t, err)

	dir := filepath.Join(tree.Root, "partial")
	assert.Equal(t, []string{filepath.Join(dir, "story-en.md"), filepath.Join(dir, "story-fa.md")}, created)

	again, err := tree.Scaffold("partial", "P")
	require.NoError(t, err)
	assert.Empty(t, again)
}
