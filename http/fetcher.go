// Package http provides the plain-HTTP fetch tier. It sends randomized
// realistic browser headers, throttles per domain, and scans responses
// for bot-detection signals. Script-rendered content needs the rod tier
// instead.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/CascadingLabs/yosoi"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// minBodyLength is the smallest response treated as real content.
const minBodyLength = 100

// Ensure Fetcher implements yosoi.Fetcher at compile time.
var _ yosoi.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML using plain HTTP requests with anti-bot
// countermeasures: user-agent rotation, randomized headers, and a
// per-domain delay before each request.
type Fetcher struct {
	client     *http.Client
	classifier yosoi.Classifier
	limiter    yosoi.DomainLimiter
	timeout    time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithLimiter sets the per-domain rate limiter applied before each
// request. No throttling is applied when unset.
func WithLimiter(l yosoi.DomainLimiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// NewFetcher creates a new HTTP-based Fetcher. The classifier annotates
// every successful fetch with its content classification.
func NewFetcher(classifier yosoi.Classifier, opts ...Option) *Fetcher {
	f := &Fetcher{
		classifier: classifier,
		timeout:    DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the URL. Transient failures are reported in the
// outcome; the only error returned is *yosoi.BotDetectedError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
	begin := time.Now()
	outcome := &yosoi.FetchOutcome{URL: url}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, yosoi.Domain(url)); err != nil {
			outcome.BlockReason = err.Error()
			outcome.Elapsed = time.Since(begin)
			return outcome, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		outcome.BlockReason = err.Error()
		outcome.Elapsed = time.Since(begin)
		return outcome, nil
	}
	req.Header = RandomHeaders(RandomUserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		outcome.BlockReason = err.Error()
		outcome.Elapsed = time.Since(begin)
		return outcome, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome.StatusCode = resp.StatusCode
		outcome.BlockReason = err.Error()
		outcome.Elapsed = time.Since(begin)
		return outcome, nil
	}

	html := string(body)
	outcome.StatusCode = resp.StatusCode
	outcome.Elapsed = time.Since(begin)

	// Block detection runs before the length cutoff: a 403 with a
	// one-word body must escalate, not soft-fail.
	if indicators := yosoi.CheckBlocked(html, resp.StatusCode); len(indicators) > 0 {
		return nil, &yosoi.BotDetectedError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Indicators: indicators,
		}
	}

	if len(html) < minBodyLength {
		outcome.Blocked = true
		outcome.BlockReason = "response too short or empty"
		return outcome, nil
	}

	outcome.HTML = html
	outcome.Classification = f.classifier.Classify(html)
	return outcome, nil
}

// Close releases resources. A no-op for the HTTP fetcher.
func (f *Fetcher) Close() error {
	return nil
}
