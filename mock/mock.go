// Package mock provides function-field mock implementations of yosoi
// interfaces for testing.
package mock

import (
	"context"

	"github.com/CascadingLabs/yosoi"
)

var _ yosoi.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of yosoi.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*yosoi.FetchOutcome, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ yosoi.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of yosoi.Classifier.
type Classifier struct {
	ClassifyFn func(html string) yosoi.ContentClassification
}

func (c *Classifier) Classify(html string) yosoi.ContentClassification {
	return c.ClassifyFn(html)
}

var _ yosoi.Reducer = (*Reducer)(nil)

// Reducer is a mock implementation of yosoi.Reducer.
type Reducer struct {
	ReduceFn func(html string) (*yosoi.Reduction, error)
}

func (r *Reducer) Reduce(html string) (*yosoi.Reduction, error) {
	return r.ReduceFn(html)
}

var _ yosoi.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of yosoi.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, urlContext, reducedHTML string) (yosoi.CandidateMap, error)
}

func (d *Discoverer) Discover(ctx context.Context, urlContext, reducedHTML string) (yosoi.CandidateMap, error) {
	return d.DiscoverFn(ctx, urlContext, reducedHTML)
}

var _ yosoi.Verifier = (*Verifier)(nil)

// Verifier is a mock implementation of yosoi.Verifier.
type Verifier struct {
	VerifyFn func(html string, candidates yosoi.CandidateMap) (*yosoi.VerificationOutcome, error)
}

func (v *Verifier) Verify(html string, candidates yosoi.CandidateMap) (*yosoi.VerificationOutcome, error) {
	return v.VerifyFn(html, candidates)
}

var _ yosoi.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of yosoi.Extractor.
type Extractor struct {
	ExtractFn func(html string, verified yosoi.CandidateMap) (*yosoi.ExtractedContent, error)
}

func (e *Extractor) Extract(html string, verified yosoi.CandidateMap) (*yosoi.ExtractedContent, error) {
	return e.ExtractFn(html, verified)
}

var _ yosoi.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of yosoi.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}

var _ yosoi.FeedParser = (*FeedParser)(nil)

// FeedParser is a mock implementation of yosoi.FeedParser.
type FeedParser struct {
	ParseFn func(raw string) (*yosoi.FeedSummary, error)
}

func (p *FeedParser) Parse(raw string) (*yosoi.FeedSummary, error) {
	return p.ParseFn(raw)
}

var _ yosoi.Converter = (*Converter)(nil)

// Converter is a mock implementation of yosoi.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
