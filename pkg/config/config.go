package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the optional project config file looked up in the project root.
const FileName = "storysite.yaml"

const (
	BodyFormatMinimal  = "minimal"
	BodyFormatMarkdown = "markdown"
)

// Language describes one of the two parallel language trees.
type Language struct {
	Code         string `yaml:"code"`
	Name         string `yaml:"name"`
	DefaultTitle string `yaml:"default_title"`
	PrevLabel    string `yaml:"prev_label"`
	NextLabel    string `yaml:"next_label"`
	Template     string `yaml:"template"`
}

// ListPlaceholder is the landing page token replaced by this language's
// story list, e.g. {{EN_STORY_LIST}}.
func (l Language) ListPlaceholder() string {
	return "{{" + strings.ToUpper(l.Code) + "_STORY_LIST}}"
}

// Direction returns "rtl" for languages written in a right-to-left script.
func (l Language) Direction() string {
	tag, err := language.Parse(l.Code)
	if err != nil {
		return "ltr"
	}
	script, _ := tag.Script()
	switch script.String() {
	case "Arab", "Hebr", "Syrc", "Thaa", "Nkoo", "Adlm", "Rohg":
		return "rtl"
	}
	return "ltr"
}

type Config struct {
	// Root is the project directory every relative path is resolved against.
	Root string `yaml:"-"`

	SourceDir       string `yaml:"source_dir"`
	OutputDir       string `yaml:"output_dir"`
	TemplatesDir    string `yaml:"templates_dir"`
	IndexTemplate   string `yaml:"index_template"`
	DataFile        string `yaml:"data_file"`
	OrderFile       string `yaml:"order_file"`
	LegacyOrderFile string `yaml:"legacy_order_file"`

	// ScaffoldFolder is never treated as a story and seeds `storysite new`.
	ScaffoldFolder string `yaml:"scaffold_folder"`

	// StoryFileBase and Extensions name the per-language source files:
	// <base>-<lang><ext>, first extension preferred.
	StoryFileBase string   `yaml:"story_file_base"`
	Extensions    []string `yaml:"extensions"`

	BodyFormat string     `yaml:"body_format"`
	CustomCSS  string     `yaml:"custom_css"`
	Languages  []Language `yaml:"languages"`
}

// Default returns the layout the site has always used.
func Default() *Config {
	return &Config{
		Root:            ".",
		SourceDir:       "stories-source",
		OutputDir:       "docs",
		TemplatesDir:    "templates",
		IndexTemplate:   "index-template.html",
		DataFile:        "docs/stories-data.json",
		OrderFile:       "docs/stories-order.txt",
		LegacyOrderFile: "stories-order.txt",
		ScaffoldFolder:  "story-template",
		StoryFileBase:   "story",
		Extensions:      []string{".md", ".txt"},
		BodyFormat:      BodyFormatMinimal,
		CustomCSS:       "/* Custom styles for story */\n/* Add any story-specific CSS here */\n",
		Languages: []Language{
			{
				Code:         "en",
				Name:         "English",
				DefaultTitle: "Untitled",
				PrevLabel:    "Previous story",
				NextLabel:    "Next story",
				Template:     "story-en.html",
			},
			{
				Code:         "fa",
				Name:         "Persian",
				DefaultTitle: "بدون عنوان",
				PrevLabel:    "داستان قبلی",
				NextLabel:    "داستان بعدی",
				Template:     "story-fa.html",
			},
		},
	}
}

// Load builds the config for the project at root: defaults, then
// storysite.yaml, then .env and process environment.
func Load(root string) (*Config, error) {
	cfg := Default()
	cfg.Root = root

	data, err := os.ReadFile(filepath.Join(root, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
		cfg.Root = root
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	envFile := filepath.Join(root, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	c.SourceDir = getEnv("STORYSITE_SOURCE_DIR", c.SourceDir)
	c.OutputDir = getEnv("STORYSITE_OUTPUT_DIR", c.OutputDir)
	c.TemplatesDir = getEnv("STORYSITE_TEMPLATES_DIR", c.TemplatesDir)
	c.DataFile = getEnv("STORYSITE_DATA_FILE", c.DataFile)
	c.OrderFile = getEnv("STORYSITE_ORDER_FILE", c.OrderFile)
	c.LegacyOrderFile = getEnv("STORYSITE_LEGACY_ORDER_FILE", c.LegacyOrderFile)
	c.BodyFormat = getEnv("STORYSITE_BODY_FORMAT", c.BodyFormat)
}

// Validate checks the settings the pipeline cannot run without.
func (c *Config) Validate() error {
	if len(c.Languages) != 2 {
		return fmt.Errorf("exactly two languages must be configured, got %d", len(c.Languages))
	}
	seen := make(map[string]bool, 2)
	for _, lang := range c.Languages {
		if _, err := language.Parse(lang.Code); err != nil {
			return fmt.Errorf("invalid language code %q: %w", lang.Code, err)
		}
		if seen[lang.Code] {
			return fmt.Errorf("language %q configured twice", lang.Code)
		}
		seen[lang.Code] = true
		if lang.Template == "" {
			return fmt.Errorf("language %q has no template", lang.Code)
		}
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one story file extension is required")
	}
	switch c.BodyFormat {
	case BodyFormatMinimal, BodyFormatMarkdown:
	default:
		return fmt.Errorf("unknown body format %q", c.BodyFormat)
	}
	return nil
}

// Path resolves a project-relative path against Root.
func (c *Config) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, rel)
}

func (c *Config) Primary() Language   { return c.Languages[0] }
func (c *Config) Secondary() Language { return c.Languages[1] }

// LanguageCodes returns the configured codes, primary first.
func (c *Config) LanguageCodes() []string {
	codes := make([]string, len(c.Languages))
	for i, l := range c.Languages {
		codes[i] = l.Code
	}
	return codes
}

// StoryFileNames returns the candidate file names for lang, in preference order.
func (c *Config) StoryFileNames(lang string) []string {
	names := make([]string, len(c.Extensions))
	for i, ext := range c.Extensions {
		names[i] = fmt.Sprintf("%s-%s%s", c.StoryFileBase, lang, ext)
	}
	return names
}
