// Package fs writes extracted content to per-URL files.
package fs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/CascadingLabs/yosoi"
)

// Format selects the on-disk rendering of extracted content.
type Format string

// Supported output formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Writer renders extraction records to files in a directory, one file
// per URL.
type Writer struct {
	baseDir   string
	format    Format
	converter yosoi.Converter
}

// NewWriter creates a Writer for the given directory and format.
// The converter renders body HTML for markdown output; it may be nil,
// in which case the plain extracted text is used.
func NewWriter(baseDir string, format Format, converter yosoi.Converter) *Writer {
	return &Writer{baseDir: baseDir, format: format, converter: converter}
}

// Write renders the record to a file and returns the path written.
func (w *Writer) Write(rec *yosoi.ContentRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	name, err := URLToFilename(rec.URL, w.format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.baseDir, name)

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	var content []byte
	switch w.format {
	case FormatMarkdown:
		content = []byte(w.formatMarkdown(rec))
	case FormatJSON:
		content, err = json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return "", err
		}
	default:
		return "", yosoi.Errorf(yosoi.EINVALID, "unknown output format %q", w.format)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// formatMarkdown renders the record with YAML frontmatter.
func (w *Writer) formatMarkdown(rec *yosoi.ContentRecord) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(rec.URL)
	if rec.Content.Headline != "" {
		b.WriteString("\nheadline: ")
		b.WriteString(rec.Content.Headline)
	}
	if rec.Content.Author != "" {
		b.WriteString("\nauthor: ")
		b.WriteString(rec.Content.Author)
	}
	if rec.Content.Date != "" {
		b.WriteString("\ndate: ")
		b.WriteString(rec.Content.Date)
	}
	if !rec.ExtractedAt.IsZero() {
		b.WriteString("\nextracted: ")
		b.WriteString(rec.ExtractedAt.Format("2006-01-02"))
	}
	b.WriteString("\n---\n\n")

	b.WriteString(w.body(rec.Content))

	if len(rec.Content.Related) > 0 {
		b.WriteString("\n\n## Related\n\n")
		for _, link := range rec.Content.Related {
			fmt.Fprintf(&b, "- [%s](%s)\n", link.Text, link.Href)
		}
	}
	return b.String()
}

func (w *Writer) body(content *yosoi.ExtractedContent) string {
	if w.converter != nil && content.BodyHTML != "" {
		if md, err := w.converter.Convert(content.BodyHTML); err == nil {
			return strings.TrimSpace(md)
		}
	}
	return content.Body
}

// URLToFilename converts a URL into a flat, filesystem-safe file name.
// Example: https://example.com/news/go-1.25 → example.com_news_go-1.25.md
func URLToFilename(rawURL string, format Format) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	name := u.Host + u.Path
	name = strings.TrimSuffix(name, "/")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		name = "index"
	}

	ext := ".json"
	if format == FormatMarkdown {
		ext = ".md"
	}
	return name + ext, nil
}
