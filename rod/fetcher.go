// Package rod provides the browser fetch tier using Chrome automation.
// It renders script-heavy pages and bypasses most bot defenses the
// plain-HTTP tier cannot.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/CascadingLabs/yosoi"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultSettleDelay is how long the fetcher dwells after the page
// settles. Navigating and snapshotting instantly is an obvious bot
// signal.
const DefaultSettleDelay = 1 * time.Second

// DefaultIdleTimeout bounds the wait for network idle after load.
const DefaultIdleTimeout = 10 * time.Second

// minRenderedLength is the smallest rendered document treated as real
// content. Shorter pages on benign statuses are transient outcomes.
const minRenderedLength = 100

// Ensure Fetcher implements yosoi.Fetcher at compile time.
var _ yosoi.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser
// automation. Fetcher is safe for concurrent use by multiple
// goroutines.
type Fetcher struct {
	browser     *rod.Browser
	classifier  yosoi.Classifier
	settleDelay time.Duration
	idleTimeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithSettleDelay overrides the post-load dwell time.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.settleDelay = d }
}

// WithIdleTimeout overrides the network-idle wait bound.
func WithIdleTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.idleTimeout = d }
}

// NewFetcher creates a new Fetcher that launches a headless Chrome
// browser. Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(classifier yosoi.Classifier, opts ...Option) (*Fetcher, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled")
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f := &Fetcher{
		browser:     browser,
		classifier:  classifier,
		settleDelay: DefaultSettleDelay,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to the URL, waits for the page to settle, and
// returns the rendered HTML. Rendered output goes through the same
// block-marker scan as the HTTP tier.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
	begin := time.Now()
	outcome := &yosoi.FetchOutcome{URL: url}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		outcome.BlockReason = err.Error()
		outcome.Elapsed = time.Since(begin)
		return outcome, nil
	}
	defer page.Close()

	page = page.Context(ctx)

	var statusCode int
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			statusCode = e.Response.Status
			return true
		}
		return false
	})

	if err := page.Navigate(url); err != nil {
		outcome.BlockReason = err.Error()
		outcome.Elapsed = time.Since(begin)
		return outcome, nil
	}
	wait()

	if err := page.WaitLoad(); err != nil {
		outcome.BlockReason = err.Error()
		outcome.Elapsed = time.Since(begin)
		return outcome, nil
	}

	// Best effort: idle may never arrive on pages that poll.
	waitIdle := page.Timeout(f.idleTimeout).WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
	waitIdle()

	time.Sleep(f.settleDelay)

	html, err := page.HTML()
	if err != nil {
		outcome.BlockReason = err.Error()
		outcome.Elapsed = time.Since(begin)
		return outcome, nil
	}

	if statusCode == 0 {
		statusCode = 200
	}
	outcome.StatusCode = statusCode
	outcome.Elapsed = time.Since(begin)

	if indicators := yosoi.CheckBlocked(html, statusCode); len(indicators) > 0 {
		return nil, &yosoi.BotDetectedError{
			URL:        url,
			StatusCode: statusCode,
			Indicators: indicators,
		}
	}

	if len(html) < minRenderedLength {
		outcome.BlockReason = "rendered page too short or empty"
		return outcome, nil
	}

	outcome.HTML = html
	outcome.Classification = f.classifier.Classify(html)
	return outcome, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}
