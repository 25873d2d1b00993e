package yosoi

import "context"

// Discoverer proposes candidate selectors for a page. It is an external,
// fallible, retryable boundary; the orchestrator owns retry policy.
type Discoverer interface {
	// Discover analyzes reduced HTML and returns candidate selector
	// tiers per field. A map whose every tier is the NA sentinel is a
	// legitimate "no locator found" result, not an error. Errors carry
	// EINVALID for structurally invalid output and EUNAVAILABLE for
	// provider failures.
	Discover(ctx context.Context, urlContext, reducedHTML string) (CandidateMap, error)
}
