// Package pipeline orchestrates selector discovery and extraction.
// It sequences fetch, classification, reduction, discovery,
// verification, extraction, and persistence per URL, and owns the
// retry, caching, and usage-accounting policy around those steps.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/bloom"
)

// DefaultInvalidateThreshold is how many cached fields may fail
// re-verification before the domain's cache entry is discarded.
const DefaultInvalidateThreshold = 2

// Status is the terminal outcome of processing one URL.
type Status string

const (
	// StatusSuccess means selectors were verified and cached, and
	// extraction was attempted.
	StatusSuccess Status = "success"

	// StatusSoftFailure means fetch or discovery exhausted retries, or
	// no field verified; the batch continues.
	StatusSoftFailure Status = "soft_failure"

	// StatusHardAbort means bot detection survived escalation through
	// every fetch tier; this URL is done, the batch continues.
	StatusHardAbort Status = "hard_abort"
)

// URLResult is the outcome of processing a single URL.
type URLResult struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
	Status Status `json:"status"`

	// Reason explains soft failures and hard aborts.
	Reason string `json:"reason,omitempty"`

	// CacheHit is true when cached selectors survived re-verification
	// and no discovery was needed.
	CacheHit bool `json:"cacheHit"`

	// UsedOracle is true only when the oracle was invoked and returned
	// usable candidates. Cache hits and heuristic fallbacks leave it
	// false.
	UsedOracle bool `json:"usedOracle"`

	Selectors    yosoi.CandidateMap         `json:"selectors,omitempty"`
	Verification *yosoi.VerificationOutcome `json:"verification,omitempty"`
	Content      *yosoi.ExtractedContent    `json:"content,omitempty"`
	Feed         *yosoi.FeedSummary         `json:"feed,omitempty"`
	Usage        *yosoi.DomainUsage         `json:"usage,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

// Options are per-run flags.
type Options struct {
	// Force skips the domain cache and always runs discovery.
	Force bool

	// SkipVerification extracts with candidate selectors as-is, without
	// testing them against the DOM first.
	SkipVerification bool
}

// Pipeline processes URLs sequentially. Each URL walks the state
// machine fetch, classify, reduce, discover, verify, extract, persist;
// no step of one URL overlaps with another.
type Pipeline struct {
	Fetcher    yosoi.Fetcher
	Reducer    yosoi.Reducer
	Discoverer yosoi.Discoverer
	Verifier   yosoi.Verifier
	Extractor  yosoi.Extractor

	Selectors yosoi.SelectorService
	Usage     yosoi.UsageService

	// Content persistence is optional; extraction results are still
	// returned on the URLResult when nil.
	Content yosoi.ContentService

	// Feeds is optional; when set, feed documents get a FeedSummary
	// attached instead of an empty result.
	Feeds yosoi.FeedParser

	// FetchRetry and DiscoveryRetry default to FetchRetry() and
	// DiscoveryRetry() when zero.
	FetchRetry     Retry
	DiscoveryRetry Retry

	// InvalidateThreshold defaults to DefaultInvalidateThreshold when
	// zero.
	InvalidateThreshold int

	Logger *slog.Logger
}

// ProcessBatch processes URLs one at a time in input order, appending
// results in that order. Duplicate URLs within the batch are processed
// once; the duplicate positions get the first occurrence's result. A
// single URL's failure never aborts the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, urls []string, opts Options) []*URLResult {
	seen := bloom.NewFilter(uint(len(urls))+1, 0.001)
	byURL := make(map[string]*URLResult, len(urls))

	results := make([]*URLResult, 0, len(urls))
	for _, u := range urls {
		if seen.Seen(u) {
			if prior, ok := byURL[u]; ok {
				results = append(results, prior)
				continue
			}
		}
		seen.Add(u)

		res := p.ProcessURL(ctx, u, opts)
		byURL[u] = res
		results = append(results, res)
	}
	return results
}

// ProcessURL runs the full pipeline for one URL. All failures are
// encoded in the result; ProcessURL itself never returns an error.
func (p *Pipeline) ProcessURL(ctx context.Context, url string, opts Options) *URLResult {
	begin := time.Now()
	res := &URLResult{URL: url, Domain: yosoi.Domain(url)}
	defer func() {
		res.Elapsed = time.Since(begin)
		p.recordUsage(ctx, res)
	}()

	cached := p.loadCache(ctx, res.Domain, opts)

	outcome, err := p.fetch(ctx, url)
	if err != nil {
		res.Status = StatusHardAbort
		res.Reason = err.Error()
		return res
	}
	if outcome == nil || !outcome.Success() {
		res.Status = StatusSoftFailure
		res.Reason = fetchFailureReason(outcome)
		return res
	}

	if outcome.Classification.IsFeed && p.Feeds != nil {
		if summary, err := p.Feeds.Parse(outcome.HTML); err == nil {
			res.Feed = summary
		}
	}

	// A cache entry is only trusted after re-verification against the
	// freshly fetched HTML, never replayed blindly.
	if cached != nil {
		if opts.SkipVerification {
			res.CacheHit = true
			res.Selectors = cached.Selectors
			p.extract(ctx, res, outcome.HTML)
			res.Status = StatusSuccess
			return res
		}

		verification, err := p.Verifier.Verify(outcome.HTML, cached.Selectors)
		if err == nil && verification.FailedCount() < p.invalidateThreshold() {
			res.CacheHit = true
			res.Verification = verification
			res.Selectors = verification.Verified(cached.Selectors)
			p.extract(ctx, res, outcome.HTML)
			res.Status = StatusSuccess
			return res
		}
		p.invalidateCache(ctx, res.Domain)
	}

	candidates, err := p.discover(ctx, res, outcome)
	if err != nil {
		res.Status = StatusSoftFailure
		res.Reason = err.Error()
		return res
	}

	if opts.SkipVerification {
		res.Selectors = candidates
		p.extract(ctx, res, outcome.HTML)
		res.Status = StatusSuccess
		return res
	}

	verification, err := p.Verifier.Verify(outcome.HTML, candidates)
	if err != nil {
		res.Status = StatusSoftFailure
		res.Reason = err.Error()
		return res
	}
	res.Verification = verification
	if !verification.Success() {
		res.Status = StatusSoftFailure
		res.Reason = "no fields verified"
		return res
	}

	res.Selectors = verification.Verified(candidates)
	p.saveCache(ctx, res.Domain, res.Selectors)
	p.extract(ctx, res, outcome.HTML)
	res.Status = StatusSuccess
	return res
}

// fetch runs the fetcher under the fetch retry policy. Transient
// failures (no HTML, no bot detection) are retried; bot detection is
// returned immediately so the caller can hard-abort.
func (p *Pipeline) fetch(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
	retry := p.FetchRetry
	if retry.MaxAttempts == 0 {
		retry = FetchRetry()
	}
	retry.Retryable = func(err error) bool { return !yosoi.IsBotDetected(err) }

	var outcome *yosoi.FetchOutcome
	err := retry.Do(ctx, func(ctx context.Context) error {
		out, err := p.Fetcher.Fetch(ctx, url)
		if err != nil {
			return err
		}
		outcome = out
		if !out.Success() {
			p.log().Debug("fetch attempt failed", "url", url, "reason", out.BlockReason)
			return fmt.Errorf("fetch failed: %s", fetchFailureReason(out))
		}
		return nil
	})
	if yosoi.IsBotDetected(err) {
		return nil, err
	}
	// Retries exhausted on transient failures: report the last outcome
	// so the caller records a soft failure.
	return outcome, nil
}

// discover produces candidate selectors: heuristics for feeds and
// script shells, otherwise the oracle with bounded retries falling back
// to heuristics. UsedOracle is set only when the oracle answered.
func (p *Pipeline) discover(ctx context.Context, res *URLResult, outcome *yosoi.FetchOutcome) (yosoi.CandidateMap, error) {
	if outcome.SkipDiscovery() {
		p.log().Info("skipping discovery",
			"url", res.URL,
			"isFeed", outcome.Classification.IsFeed,
			"scriptRendered", outcome.Classification.RequiresScriptRendering)
		return yosoi.HeuristicSelectors(), nil
	}

	reduction, err := p.Reducer.Reduce(outcome.HTML)
	if err != nil {
		return nil, fmt.Errorf("reducing HTML: %w", err)
	}
	p.log().Debug("reduced HTML",
		"url", res.URL,
		"subtree", reduction.Subtree,
		"ratio", reduction.Ratio)

	retry := p.DiscoveryRetry
	if retry.MaxAttempts == 0 {
		retry = DiscoveryRetry()
	}

	var candidates yosoi.CandidateMap
	err = retry.Do(ctx, func(ctx context.Context) error {
		m, err := p.Discoverer.Discover(ctx, res.URL, reduction.HTML)
		if err != nil {
			return err
		}
		candidates = m
		return nil
	})
	if err != nil {
		p.log().Warn("discovery exhausted retries, using heuristic selectors",
			"url", res.URL, "error", err)
		return yosoi.HeuristicSelectors(), nil
	}

	res.UsedOracle = true
	return candidates, nil
}

func (p *Pipeline) extract(ctx context.Context, res *URLResult, html string) {
	// After verification, extraction is pinned to each field's working
	// tier; only unverified runs hand the extractor full candidate sets.
	selectors := res.Selectors
	if res.Verification != nil {
		selectors = res.Verification.WorkingSelectors(res.Selectors)
	}
	if len(selectors) == 0 {
		return
	}
	content, err := p.Extractor.Extract(html, selectors)
	if err != nil {
		p.log().Warn("extraction failed", "url", res.URL, "error", err)
		return
	}
	if content == nil || content.Empty() {
		return
	}
	res.Content = content

	if p.Content != nil {
		rec := &yosoi.ContentRecord{URL: res.URL, Domain: res.Domain, Content: content}
		if err := p.Content.SaveContent(ctx, rec); err != nil {
			p.log().Warn("saving content failed", "url", res.URL, "error", err)
		}
	}
}

func (p *Pipeline) loadCache(ctx context.Context, domain string, opts Options) *yosoi.DomainCacheEntry {
	if opts.Force || p.Selectors == nil {
		return nil
	}
	entry, err := p.Selectors.LoadSelectors(ctx, domain)
	if err != nil {
		if yosoi.ErrorCode(err) != yosoi.ENOTFOUND {
			p.log().Warn("loading selector cache failed", "domain", domain, "error", err)
		}
		return nil
	}
	return entry
}

func (p *Pipeline) saveCache(ctx context.Context, domain string, selectors yosoi.CandidateMap) {
	if p.Selectors == nil {
		return
	}
	entry := &yosoi.DomainCacheEntry{
		Domain:    domain,
		Selectors: selectors,
		SavedAt:   time.Now(),
	}
	if err := p.Selectors.SaveSelectors(ctx, entry); err != nil {
		p.log().Warn("saving selector cache failed", "domain", domain, "error", err)
	}
}

func (p *Pipeline) invalidateCache(ctx context.Context, domain string) {
	if p.Selectors == nil {
		return
	}
	p.log().Info("invalidating stale selector cache", "domain", domain)
	if err := p.Selectors.DeleteSelectors(ctx, domain); err != nil && yosoi.ErrorCode(err) != yosoi.ENOTFOUND {
		p.log().Warn("invalidating selector cache failed", "domain", domain, "error", err)
	}
}

// recordUsage increments the domain's counters exactly once per
// processed URL, whatever the outcome.
func (p *Pipeline) recordUsage(ctx context.Context, res *URLResult) {
	if p.Usage == nil {
		return
	}
	usage, err := p.Usage.RecordURL(ctx, res.URL, res.UsedOracle)
	if err != nil {
		p.log().Warn("recording usage failed", "url", res.URL, "error", err)
		return
	}
	res.Usage = usage
}

func (p *Pipeline) invalidateThreshold() int {
	if p.InvalidateThreshold > 0 {
		return p.InvalidateThreshold
	}
	return DefaultInvalidateThreshold
}

func (p *Pipeline) log() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func fetchFailureReason(outcome *yosoi.FetchOutcome) string {
	switch {
	case outcome == nil:
		return "no response"
	case outcome.BlockReason != "":
		return outcome.BlockReason
	case outcome.HTML == "":
		return "empty response"
	default:
		return "fetch failed"
	}
}
