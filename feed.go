package yosoi

// FeedSummary is what we can usefully take from a feed document.
// Selector discovery is pointless on feeds, but their entries make a
// perfectly good related-links result.
type FeedSummary struct {
	Title string `json:"title"`
	Links []Link `json:"links"`
}

// FeedParser parses RSS/Atom documents.
type FeedParser interface {
	// Parse parses feed XML. Returns EINVALID if the document is not a
	// parseable feed.
	Parse(raw string) (*FeedSummary, error)
}
