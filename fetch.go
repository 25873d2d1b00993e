package yosoi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// FetchOutcome is the result of one fetch attempt.
type FetchOutcome struct {
	URL            string
	HTML           string
	StatusCode     int
	Blocked        bool
	BlockReason    string
	Elapsed        time.Duration
	Classification ContentClassification
}

// Success reports whether the fetch yielded usable HTML.
func (o *FetchOutcome) Success() bool {
	return o.HTML != "" && !o.Blocked
}

// SkipDiscovery reports whether the content is a poor input for the
// selector oracle: feeds and script-rendered shells produce DOM the
// oracle cannot usefully reason about, so the orchestrator substitutes
// heuristic selectors instead of calling it.
func (o *FetchOutcome) SkipDiscovery() bool {
	return o.Classification.IsFeed || o.Classification.RequiresScriptRendering
}

// Fetcher retrieves HTML from URLs.
// Implementations may use plain HTTP or browser automation; either way
// they classify the fetched content and scan it for block-page markers,
// returning a BotDetectedError when blocking is detected.
type Fetcher interface {
	// Fetch retrieves the URL and returns the outcome.
	// Transient failures (network errors, timeouts, empty bodies) are
	// reported as an outcome with no HTML, not as errors; the only
	// error that crosses this boundary is bot detection.
	Fetch(ctx context.Context, url string) (*FetchOutcome, error)

	// Close releases fetcher resources.
	Close() error
}

// BotDetectedError signals that a fetch was blocked or challenged by
// bot defenses. It always propagates so the orchestrator can escalate
// to the next fetch tier or abort the URL.
type BotDetectedError struct {
	URL        string
	StatusCode int
	Indicators []string
}

// Error implements the error interface.
func (e *BotDetectedError) Error() string {
	return fmt.Sprintf("bot detection triggered on %s (status=%d): %s",
		e.URL, e.StatusCode, strings.Join(e.Indicators, ", "))
}

// IsBotDetected reports whether err is (or wraps) a BotDetectedError.
func IsBotDetected(err error) bool {
	var e *BotDetectedError
	return errors.As(err, &e)
}

// DomainLimiter throttles requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is allowed.
	// Returns an error if the context is canceled before then.
	Wait(ctx context.Context, domain string) error
}
