package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, "stories-source", cfg.SourceDir)
	assert.Equal(t, filepath.Join(dir, "docs", "stories-order.txt"), cfg.Path(cfg.OrderFile))
	assert.Equal(t, []string{"en", "fa"}, cfg.LanguageCodes())
	assert.Equal(t, BodyFormatMinimal, cfg.BodyFormat)
}

func TestLoadYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
source_dir: content
output_dir: public
body_format: markdown
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.SourceDir)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, BodyFormatMarkdown, cfg.BodyFormat)
	assert.Equal(t, dir, cfg.Root)
	// untouched settings keep their defaults
	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Len(t, cfg.Languages, 2)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "source_dir: content\n")
	t.Setenv("STORYSITE_SOURCE_DIR", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SourceDir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "STORYSITE_TEMPLATES_DIR=layouts\n")
	t.Setenv("STORYSITE_TEMPLATES_DIR", "")
	os.Unsetenv("STORYSITE_TEMPLATES_DIR")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "layouts", cfg.TemplatesDir)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "source_dir: [unterminated\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"one language", func(c *Config) { c.Languages = c.Languages[:1] }},
		{"bad code", func(c *Config) { c.Languages[0].Code = "not a tag!" }},
		{"duplicate code", func(c *Config) { c.Languages[1].Code = c.Languages[0].Code }},
		{"missing template", func(c *Config) { c.Languages[1].Template = "" }},
		{"no extensions", func(c *Config) { c.Extensions = nil }},
		{"unknown body format", func(c *Config) { c.BodyFormat = "rst" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLanguageHelpers(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "{{EN_STORY_LIST}}", cfg.Primary().ListPlaceholder())
	assert.Equal(t, "{{FA_STORY_LIST}}", cfg.Secondary().ListPlaceholder())
	assert.Equal(t, "ltr", cfg.Primary().Direction())
	assert.Equal(t, "rtl", cfg.Secondary().Direction())
}

func TestStoryFileNames(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"story-fa.md", "story-fa.txt"}, cfg.StoryFileNames("fa"))
}

func TestPathAbsolute(t *testing.T) {
	cfg := Default()
	cfg.Root = "/project"

	abs := filepath.Join(string(filepath.Separator), "elsewhere", "order.txt")
	assert.Equal(t, abs, cfg.Path(abs))
	assert.Equal(t, filepath.Join("/project", "docs"), cfg.Path("docs"))
}
