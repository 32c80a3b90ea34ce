package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"

	"github.com/kerbaras/storysite/pkg/config"
	"github.com/kerbaras/storysite/pkg/data"
)

type EPubBuilder struct {
	outputDir string
	author    string
}

func NewEPubBuilder(outputDir, author string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir, author: author}
}

// CreateEPub compiles the stories of one language into a single EPub file,
// one section per story in bundle order.
func (p *EPubBuilder) CreateEPub(bundle *data.Bundle, lang config.Language, title string) (string, error) {
	if len(bundle.Stories) == 0 {
		return "", fmt.Errorf("no stories to compile")
	}

	// Ensure output directory exists
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}

	if p.author != "" {
		e.SetAuthor(p.author)
	}
	e.SetLang(lang.Code)
	e.SetDescription(fmt.Sprintf("%d stories (%s)", len(bundle.Stories), lang.Name))

	for _, story := range bundle.Stories {
		if err := p.addStoryToEPub(e, story, lang); err != nil {
			return "", fmt.Errorf("failed to add story %s: %w", story.Slug, err)
		}
	}

	safeTitle := sanitizeFilename(title)
	if safeTitle == "" {
		safeTitle = "stories"
	}
	outputPath := filepath.Join(p.outputDir, fmt.Sprintf("%s-%s.epub", safeTitle, lang.Code))

	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}

	return outputPath, nil
}

// addStoryToEPub adds a single story as an EPub section
func (p *EPubBuilder) addStoryToEPub(e *epub.Epub, story data.Story, lang config.Language) error {
	tr := story.Get(lang.Code)
	sectionTitle := tr.Title
	if sectionTitle == "" {
		sectionTitle = lang.DefaultTitle
	}

	var htmlContent strings.Builder
	htmlContent.WriteString(fmt.Sprintf(`<div dir="%s" lang="%s">`, lang.Direction(), lang.Code))
	htmlContent.WriteString("\n")
	htmlContent.WriteString(fmt.Sprintf("<h1>%s</h1>\n", sectionTitle))
	htmlContent.WriteString(tr.Content)
	htmlContent.WriteString("\n</div>\n")

	_, err := e.AddSection(htmlContent.String(), sectionTitle, "", "")
	if err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}

	return nil
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	// Trim spaces and dots from ends
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
