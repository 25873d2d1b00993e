package gofeed_test

import (
	"testing"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse_RSS(t *testing.T) {
	t.Parallel()

	p := gofeed.NewParser()

	summary, err := p.Parse(`<?xml version="1.0"?>
<rss version="2.0">
	<channel>
		<title>Example News</title>
		<item>
			<title>First Story</title>
			<link>https://example.com/first</link>
		</item>
		<item>
			<title>Second Story</title>
			<link>https://example.com/second</link>
		</item>
	</channel>
</rss>`)

	require.NoError(t, err)
	assert.Equal(t, "Example News", summary.Title)
	require.Len(t, summary.Links, 2)
	assert.Equal(t, yosoi.Link{Text: "First Story", Href: "https://example.com/first"}, summary.Links[0])
}

func TestParser_Parse_Atom(t *testing.T) {
	t.Parallel()

	p := gofeed.NewParser()

	summary, err := p.Parse(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Example Blog</title>
	<entry>
		<title>Hello Atom</title>
		<link href="https://example.com/hello"/>
	</entry>
</feed>`)

	require.NoError(t, err)
	assert.Equal(t, "Example Blog", summary.Title)
	require.Len(t, summary.Links, 1)
	assert.Equal(t, "https://example.com/hello", summary.Links[0].Href)
}

func TestParser_Parse_SkipsItemsWithoutLinks(t *testing.T) {
	t.Parallel()

	p := gofeed.NewParser()

	summary, err := p.Parse(`<?xml version="1.0"?>
<rss version="2.0">
	<channel>
		<title>Example</title>
		<item><title>No link here</title></item>
		<item><title>Linked</title><link>https://example.com/a</link></item>
	</channel>
</rss>`)

	require.NoError(t, err)
	require.Len(t, summary.Links, 1)
	assert.Equal(t, "Linked", summary.Links[0].Text)
}

func TestParser_Parse_RejectsNonFeedDocument(t *testing.T) {
	t.Parallel()

	p := gofeed.NewParser()

	_, err := p.Parse(`<html><body><h1>Not a feed</h1></body></html>`)

	require.Error(t, err)
	assert.Equal(t, yosoi.EINVALID, yosoi.ErrorCode(err))
}
