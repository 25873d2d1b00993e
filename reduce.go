package yosoi

// Reduction holds the reduced HTML prepared for selector discovery.
type Reduction struct {
	// HTML is the reduced markup, truncated to the discoverer's input
	// budget.
	HTML string

	// Subtree names the part of the document the reduction came from
	// (e.g. "<main> inside <body>", "<body>", "full document").
	Subtree string

	// OriginalLen is the character length of the selected subtree
	// before compression.
	OriginalLen int

	// Ratio is the fraction of the original removed by compression,
	// in [0, 1]. Reported for observability only.
	Ratio float64
}

// Reducer strips noise from raw HTML and compresses it to a size the
// selector oracle can consume.
type Reducer interface {
	Reduce(html string) (*Reduction, error)
}
