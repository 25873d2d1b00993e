package yosoi

// Link is one related-content entry.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ExtractedContent holds the literal values pulled from a page using
// verified selectors.
type ExtractedContent struct {
	Headline string `json:"headline,omitempty"`
	Author   string `json:"author,omitempty"`
	Date     string `json:"date,omitempty"`

	// Body is the article text with paragraph separation.
	Body string `json:"body_text,omitempty"`

	// BodyHTML is the outer HTML of the matched body elements, kept for
	// markdown rendering.
	BodyHTML string `json:"-"`

	Related []Link `json:"related_content,omitempty"`
}

// Empty reports whether nothing was extracted.
func (c *ExtractedContent) Empty() bool {
	return c.Headline == "" && c.Author == "" && c.Date == "" &&
		c.Body == "" && len(c.Related) == 0
}

// Extractor pulls content from HTML using verified selectors. It must
// operate on the same HTML snapshot the verifier saw: re-fetching or
// re-reducing between verify and extract risks a previously-matching
// tier no longer matching.
type Extractor interface {
	Extract(html string, verified CandidateMap) (*ExtractedContent, error)
}

// Converter transforms HTML into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
