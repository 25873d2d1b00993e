package goquery

import (
	"regexp"
	"strings"

	"github.com/CascadingLabs/yosoi"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Ensure Reducer implements yosoi.Reducer at compile time.
var _ yosoi.Reducer = (*Reducer)(nil)

// DefaultBudget is the character budget for reduced HTML, sized to the
// oracle's input limits.
const DefaultBudget = 30000

// noiseSelectors are containers removed before subtree selection:
// sidebars, widgets, and ad slots never hold the fields we extract.
var noiseSelectors = []string{
	".sidebar",
	".widget",
	"#sidebar",
	".advertisement",
	".ad",
	`[class*="ad-"]`,
	`[id*="ad-"]`,
	".related-posts",
	".useful-links",
}

// keepAttrs are the only attributes retained during compression; they
// are the ones useful for targeting with CSS selectors. data-* attributes
// are retained separately.
var keepAttrs = map[string]bool{
	"class":    true,
	"id":       true,
	"href":     true,
	"src":      true,
	"datetime": true,
	"alt":      true,
	"name":     true,
	"type":     true,
}

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n+`)
)

// Reducer strips noise from raw HTML, selects the narrowest meaningful
// subtree, and compresses it to a token-safe size for the oracle.
type Reducer struct {
	budget int
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithBudget overrides the character budget. Useful for tests.
func WithBudget(n int) ReducerOption {
	return func(r *Reducer) { r.budget = n }
}

// NewReducer creates a new Reducer.
func NewReducer(opts ...ReducerOption) *Reducer {
	r := &Reducer{budget: DefaultBudget}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce processes raw HTML and returns the reduced form.
func (r *Reducer) Reduce(rawHTML string) (*yosoi.Reduction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, yosoi.Errorf(yosoi.EINVALID, "parsing HTML: %v", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()
	doc.Find("header, nav, footer").Remove()
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	content, subtree := selectSubtree(doc)

	originalLen := len(renderSelection(content))

	compress(content)

	rendered := renderSelection(content)
	rendered = collapseWhitespace(rendered)

	ratio := 0.0
	if originalLen > 0 {
		ratio = 1 - float64(len(rendered))/float64(originalLen)
		if ratio < 0 {
			ratio = 0
		}
	}

	if len(rendered) > r.budget {
		rendered = rendered[:r.budget]
	}

	return &yosoi.Reduction{
		HTML:        rendered,
		Subtree:     subtree,
		OriginalLen: originalLen,
		Ratio:       ratio,
	}, nil
}

// selectSubtree picks the narrowest meaningful subtree in priority
// order: <main> nested in <body>, then <body>, then a top-level <main>,
// then the whole document.
func selectSubtree(doc *goquery.Document) (*goquery.Selection, string) {
	body := doc.Find("body").First()
	if body.Length() > 0 {
		if main := body.Find("main").First(); main.Length() > 0 {
			return main, "<main> inside <body>"
		}
		return body, "<body>"
	}
	if main := doc.Find("main").First(); main.Length() > 0 {
		return main, "<main>"
	}
	return doc.Selection, "full document"
}

// compress drops comments, trims attributes, caps repeated list items
// and table rows, and removes hidden elements.
func compress(sel *goquery.Selection) {
	for _, node := range sel.Nodes {
		stripComments(node)
		stripAttrs(node)
	}

	sel.Find("ul, ol").Each(func(_ int, list *goquery.Selection) {
		items := list.ChildrenFiltered("li")
		if items.Length() > 3 {
			items.Slice(3, goquery.ToEnd).Remove()
		}
	})
	sel.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() > 5 {
			rows.Slice(5, goquery.ToEnd).Remove()
		}
	})

	sel.Find("[hidden], [aria-hidden='true']").Remove()
}

func stripComments(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
			continue
		}
		stripComments(c)
	}
}

func stripAttrs(n *html.Node) {
	if n.Type == html.ElementNode && len(n.Attr) > 0 {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if keepAttrs[a.Key] || strings.HasPrefix(a.Key, "data-") {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripAttrs(c)
	}
}

func renderSelection(sel *goquery.Selection) string {
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return out
}

func collapseWhitespace(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	s = newlineRun.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
