package parser

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kerbaras/storysite/pkg/data"
)

const (
	yamlDelimiter = "---"
	tomlDelimiter = "+++"
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	emphasis       = regexp.MustCompile(`\*([^*]+)\*`)
)

// Document is a parsed story file.
type Document struct {
	Meta    map[string]string
	Content string
}

// Title returns the title field, or fallback when it is missing or blank.
func (d *Document) Title(fallback string) string {
	if t := strings.TrimSpace(d.Meta["title"]); t != "" {
		return t
	}
	return fallback
}

// BodyRenderer turns a story body into an HTML fragment.
type BodyRenderer func(body string) (string, error)

// Parser converts story files into documents. The zero value renders bodies
// with RenderParagraphs.
type Parser struct {
	Body BodyRenderer
}

// New returns a parser for the given body format ("minimal" or "markdown").
func New(format string) (*Parser, error) {
	switch format {
	case "", "minimal":
		return &Parser{Body: RenderParagraphs}, nil
	case "markdown":
		return &Parser{Body: RenderMarkdown}, nil
	default:
		return nil, fmt.Errorf("unknown body format %q", format)
	}
}

// ParseFile reads and parses a story file.
func (p *Parser) ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}
	doc, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse splits frontmatter from the body and renders the body to HTML.
func (p *Parser) Parse(content []byte) (*Document, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	str := string(content)

	var (
		meta map[string]string
		body string
		err  error
	)
	switch {
	case strings.HasPrefix(str, yamlDelimiter):
		meta, body, err = splitKeyValue(str)
	case strings.HasPrefix(str, tomlDelimiter):
		meta, body, err = splitTOML(str)
	default:
		return nil, fmt.Errorf("%w: story must start with frontmatter (%s)", data.ErrFormat, yamlDelimiter)
	}
	if err != nil {
		return nil, err
	}

	render := p.Body
	if render == nil {
		render = RenderParagraphs
	}
	html, err := render(body)
	if err != nil {
		return nil, fmt.Errorf("failed to render story body: %w", err)
	}

	return &Document{Meta: meta, Content: html}, nil
}

// splitKeyValue handles the `---` block of `key: value` lines. Later
// duplicates overwrite earlier ones.
func splitKeyValue(str string) (map[string]string, string, error) {
	parts := strings.SplitN(str, yamlDelimiter, 3)
	if len(parts) < 3 {
		return nil, "", fmt.Errorf("%w: frontmatter is not closed with %s", data.ErrFormat, yamlDelimiter)
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(parts[1]), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return meta, strings.TrimSpace(parts[2]), nil
}

// RenderParagraphs is the minimal body transform: blank-line separated
// paragraphs become <p> blocks and *text* becomes <em>text</em>.
func RenderParagraphs(body string) (string, error) {
	var paragraphs []string
	for _, para := range paragraphBreak.Split(body, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		para = emphasis.ReplaceAllString(para, "<em>$1</em>")
		paragraphs = append(paragraphs, "<p>"+para+"</p>")
	}
	return strings.Join(paragraphs, "\n\n"), nil
}
