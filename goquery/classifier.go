// Package goquery provides goquery-based implementations of the yosoi
// content classifier, HTML reducer, selector verifier, and content
// extractor. All four operate on parsed DOM rather than regular
// expressions wherever structure matters.
package goquery

import (
	"strings"

	"github.com/CascadingLabs/yosoi"
	"github.com/PuerkitoBio/goquery"
)

// Ensure Classifier implements yosoi.Classifier at compile time.
var _ yosoi.Classifier = (*Classifier)(nil)

// feedScanLimit bounds the feed-marker scan. Feed declarations appear at
// the document head; scanning the whole body is wasteful and risks false
// positives from user content.
const feedScanLimit = 500

// minBodyText is the rendered-text threshold below which a page with a
// framework marker is considered a client-rendered shell.
const minBodyText = 100

var feedMarkers = []string{
	"<?xml",
	"<rss",
	"<feed",
	"<channel>",
	`xmlns="http://www.w3.org/2005/atom"`,
	`xmlns="http://purl.org/rss/1.0/"`,
}

// frameworkMarkers maps framework names to literal markers found in
// their rendered shells.
var frameworkMarkers = []struct {
	name    string
	markers []string
}{
	{"react", []string{`id="root"`, "data-reactroot", "react-root", "__react"}},
	{"vue", []string{`id="app"`, "v-if=", "v-for=", "vue.js", "__vue"}},
	{"angular", []string{"ng-app", "ng-controller", "angular.js", "ng-version"}},
	{"next", []string{"__next", "_next/static", "next.js"}},
	{"svelte", []string{"svelte", "__svelte"}},
}

// Classifier flags feed documents and script-rendered shells.
// Both produce DOM the selector oracle cannot usefully reason about, so
// the orchestrator uses the classification to skip discovery entirely.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify inspects raw fetched text.
func (c *Classifier) Classify(html string) yosoi.ContentClassification {
	cls := yosoi.ContentClassification{ByteLength: len(html)}
	lower := strings.ToLower(html)

	if isFeed(lower) {
		cls.IsFeed = true
		return cls
	}

	cls.Framework = detectFramework(lower)
	minimal := hasMinimalBody(html)
	noscript := hasNoscriptWarning(lower)

	cls.RequiresScriptRendering = (cls.Framework != "" && minimal) || noscript
	return cls
}

func isFeed(lower string) bool {
	head := lower
	if len(head) > feedScanLimit {
		head = head[:feedScanLimit]
	}
	for _, m := range feedMarkers {
		if strings.Contains(head, m) {
			return true
		}
	}
	return false
}

func detectFramework(lower string) string {
	for _, fw := range frameworkMarkers {
		for _, m := range fw.markers {
			if strings.Contains(lower, m) {
				return fw.name
			}
		}
	}
	return ""
}

// hasMinimalBody reports whether the body renders to under minBodyText
// characters of text once script and style content is removed.
func hasMinimalBody(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return false
	}
	body.Find("script, style").Remove()
	return len(strings.TrimSpace(body.Text())) < minBodyText
}

func hasNoscriptWarning(lower string) bool {
	if !strings.Contains(lower, "<noscript>") {
		return false
	}
	return strings.Contains(lower, "enable javascript") ||
		strings.Contains(lower, "requires javascript")
}
