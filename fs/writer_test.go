package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/fs"
	"github.com/CascadingLabs/yosoi/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *yosoi.ContentRecord {
	return &yosoi.ContentRecord{
		ID:     "rec-1",
		URL:    "https://example.com/news/go-release",
		Domain: "example.com",
		Content: &yosoi.ExtractedContent{
			Headline: "Go Released",
			Author:   "Jane Doe",
			Date:     "2026-08-01",
			Body:     "First paragraph.\n\nSecond paragraph.",
			BodyHTML: "<p>First paragraph.</p><p>Second paragraph.</p>",
			Related:  []yosoi.Link{{Text: "More Go news", Href: "https://example.com/more"}},
		},
		ExtractedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriter_Write_Markdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewWriter(dir, fs.FormatMarkdown, htmltomarkdown.NewConverter())

	path, err := w.Write(testRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example.com_news_go-release.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "source: https://example.com/news/go-release")
	assert.Contains(t, text, "headline: Go Released")
	assert.Contains(t, text, "author: Jane Doe")
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "- [More Go news](https://example.com/more)")
}

func TestWriter_Write_MarkdownWithoutConverter(t *testing.T) {
	t.Parallel()

	w := fs.NewWriter(t.TempDir(), fs.FormatMarkdown, nil)

	path, err := w.Write(testRecord())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "First paragraph.\n\nSecond paragraph.")
}

func TestWriter_Write_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewWriter(dir, fs.FormatJSON, nil)

	path, err := w.Write(testRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example.com_news_go-release.json"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded yosoi.ContentRecord
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, "Go Released", decoded.Content.Headline)
	assert.Equal(t, "https://example.com/news/go-release", decoded.URL)
}

func TestWriter_Write_RejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	w := fs.NewWriter(t.TempDir(), fs.FormatJSON, nil)

	_, err := w.Write(&yosoi.ContentRecord{URL: "https://example.com"})

	require.Error(t, err)
	assert.Equal(t, yosoi.EINVALID, yosoi.ErrorCode(err))
}

func TestURLToFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		format fs.Format
		want   string
	}{
		{"simple path", "https://example.com/news/story", fs.FormatMarkdown, "example.com_news_story.md"},
		{"trailing slash", "https://example.com/news/", fs.FormatJSON, "example.com_news.json"},
		{"root", "https://example.com/", fs.FormatJSON, "example.com.json"},
		{"query ignored, odd chars replaced", "https://example.com/a b", fs.FormatMarkdown, "example.com_a_b.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToFilename(tt.url, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
