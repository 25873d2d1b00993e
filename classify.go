package yosoi

// ContentClassification describes what kind of document a fetch
// returned. It decides whether selector discovery is worth attempting.
type ContentClassification struct {
	// IsFeed is true for RSS/Atom/XML feed documents.
	IsFeed bool

	// RequiresScriptRendering is true for client-rendered shells whose
	// initial HTML carries no meaningful content.
	RequiresScriptRendering bool

	// Framework names the detected client-side framework, if any
	// (e.g. "react", "vue"). Empty when none was detected.
	Framework string

	// ByteLength is the length of the raw fetched text.
	ByteLength int
}

// Classifier inspects raw fetched text and classifies it.
type Classifier interface {
	Classify(html string) ContentClassification
}
