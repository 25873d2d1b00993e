// Package gofeed adapts RSS/Atom parsing for feed URLs caught by the
// content classifier.
package gofeed

import (
	"strings"

	"github.com/CascadingLabs/yosoi"
	"github.com/mmcdole/gofeed"
)

// Ensure Parser implements yosoi.FeedParser at compile time.
var _ yosoi.FeedParser = (*Parser)(nil)

// Parser parses RSS and Atom documents into feed summaries. The gofeed
// library detects the format, so RSS and Atom are handled transparently.
type Parser struct {
	fp *gofeed.Parser
}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{fp: gofeed.NewParser()}
}

// Parse parses raw feed XML into the feed's title and entry links.
// Entries without a link are skipped; entries without a title keep
// their link with empty text.
func (p *Parser) Parse(raw string) (*yosoi.FeedSummary, error) {
	feed, err := p.fp.ParseString(raw)
	if err != nil {
		return nil, yosoi.Errorf(yosoi.EINVALID, "parsing feed: %v", err)
	}

	summary := &yosoi.FeedSummary{Title: strings.TrimSpace(feed.Title)}
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		summary.Links = append(summary.Links, yosoi.Link{
			Text: strings.TrimSpace(item.Title),
			Href: item.Link,
		})
	}
	return summary, nil
}
