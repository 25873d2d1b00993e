package goquery

import (
	"strings"

	"github.com/CascadingLabs/yosoi"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Ensure Extractor implements yosoi.Extractor at compile time.
var _ yosoi.Extractor = (*Extractor)(nil)

// Extractor pulls literal content from HTML using verified selectors.
// It must receive the same HTML snapshot the verifier saw.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract pulls content for each field in verified. Tiers are tried in
// priority order; the first tier that yields content wins. Returns an
// ExtractedContent that may be empty when no field yielded anything.
func (e *Extractor) Extract(htmlText string, verified yosoi.CandidateMap) (*yosoi.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, yosoi.Errorf(yosoi.EINVALID, "parsing HTML: %v", err)
	}

	content := &yosoi.ExtractedContent{}

	for field, set := range verified {
		for _, ts := range set.Tiers() {
			if ts.Selector == "" || ts.Selector == yosoi.NASelector {
				continue
			}
			if e.extractField(doc, field, ts.Selector, content) {
				break
			}
		}
	}

	return content, nil
}

// extractField applies one selector for one field and reports whether
// it yielded content. Selectors that fail to compile yield nothing:
// only one tier of a verified field is guaranteed valid.
func (e *Extractor) extractField(doc *goquery.Document, field, selector string, content *yosoi.ExtractedContent) bool {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return false
	}
	matches := doc.FindMatcher(matcher)
	if matches.Length() == 0 {
		return false
	}

	switch field {
	case yosoi.FieldBody:
		body, bodyHTML := extractBody(matches)
		if body == "" {
			return false
		}
		content.Body = body
		content.BodyHTML = bodyHTML
		return true

	case yosoi.FieldRelated:
		links := extractLinks(matches)
		if len(links) == 0 {
			return false
		}
		content.Related = links
		return true

	default:
		text := strings.TrimSpace(matches.First().Text())
		if text == "" {
			return false
		}
		switch field {
		case yosoi.FieldHeadline:
			content.Headline = text
		case yosoi.FieldAuthor:
			content.Author = text
		case yosoi.FieldDate:
			content.Date = text
		default:
			return false
		}
		return true
	}
}

// extractBody joins all matched elements' text with paragraph
// separation and captures their outer HTML for markdown rendering.
func extractBody(matches *goquery.Selection) (string, string) {
	var paragraphs []string
	var htmlParts []string

	matches.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		paragraphs = append(paragraphs, text)
		if out, err := goquery.OuterHtml(s); err == nil {
			htmlParts = append(htmlParts, out)
		}
	})

	return strings.Join(paragraphs, "\n\n"), strings.Join(htmlParts, "\n")
}

// extractLinks returns an ordered list of {text, href} entries,
// skipping matches without text.
func extractLinks(matches *goquery.Selection) []yosoi.Link {
	var links []yosoi.Link
	matches.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		href, _ := s.Attr("href")
		links = append(links, yosoi.Link{Text: text, Href: href})
	})
	return links
}
