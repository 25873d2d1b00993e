package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/CascadingLabs/yosoi"
	main "github.com/CascadingLabs/yosoi/cmd/yosoi"
	"github.com/CascadingLabs/yosoi/fs"
	"github.com/CascadingLabs/yosoi/mock"
	"github.com/CascadingLabs/yosoi/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrapePipeline builds a mock-backed pipeline whose every URL succeeds
// via the oracle.
func scrapePipeline() *pipeline.Pipeline {
	candidates := yosoi.CandidateMap{
		yosoi.FieldHeadline: {Primary: "h1", Fallback: yosoi.NASelector, Tertiary: yosoi.NASelector},
	}
	return &pipeline.Pipeline{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
				return &yosoi.FetchOutcome{URL: url, HTML: "<h1>Title</h1>", StatusCode: 200}, nil
			},
		},
		Reducer: &mock.Reducer{
			ReduceFn: func(html string) (*yosoi.Reduction, error) {
				return &yosoi.Reduction{HTML: html}, nil
			},
		},
		Discoverer: &mock.Discoverer{
			DiscoverFn: func(ctx context.Context, urlContext, reducedHTML string) (yosoi.CandidateMap, error) {
				return candidates, nil
			},
		},
		Verifier: &mock.Verifier{
			VerifyFn: func(html string, m yosoi.CandidateMap) (*yosoi.VerificationOutcome, error) {
				results := make(map[string]yosoi.FieldVerification, len(m))
				for field, set := range m {
					results[field] = yosoi.FieldVerification{
						Field:       field,
						Status:      yosoi.StatusVerified,
						WorkingTier: yosoi.TierPrimary,
						Selector:    set.Primary,
					}
				}
				return &yosoi.VerificationOutcome{
					TotalFields:   len(m),
					VerifiedCount: len(m),
					Results:       results,
				}, nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html string, verified yosoi.CandidateMap) (*yosoi.ExtractedContent, error) {
				return &yosoi.ExtractedContent{Headline: "Title"}, nil
			},
		},
		Selectors: &mock.SelectorService{
			LoadSelectorsFn: func(ctx context.Context, domain string) (*yosoi.DomainCacheEntry, error) {
				return nil, yosoi.Errorf(yosoi.ENOTFOUND, "no selectors")
			},
			SaveSelectorsFn: func(ctx context.Context, entry *yosoi.DomainCacheEntry) error {
				return nil
			},
		},
		Usage: &mock.UsageService{
			RecordURLFn: func(ctx context.Context, url string, usedOracle bool) (*yosoi.DomainUsage, error) {
				return &yosoi.DomainUsage{Domain: yosoi.Domain(url), URLCount: 1}, nil
			},
		},
		FetchRetry:     pipeline.Retry{MaxAttempts: 1},
		DiscoveryRetry: pipeline.Retry{MaxAttempts: 1},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func scrapeDeps(p *pipeline.Pipeline) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Pipeline: p,
	}, stdout, stderr
}

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints success lines and a summary", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := scrapeDeps(scrapePipeline())
		cmd := &main.ScrapeCmd{URLs: []string{"https://example.com/a", "https://example.com/b"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "OK          https://example.com/a")
		assert.Contains(t, output, "selectors: oracle")
		assert.Contains(t, output, "1/1 fields verified")
		assert.Contains(t, output, "2 succeeded, 0 failed, 0 bot-blocked (2 URLs)")
	})

	t.Run("distinguishes bot blocks from soft failures", func(t *testing.T) {
		t.Parallel()

		p := scrapePipeline()
		p.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
				if url == "https://blocked.example.com/x" {
					return nil, &yosoi.BotDetectedError{URL: url, StatusCode: 403, Indicators: []string{"HTTP 403"}}
				}
				return &yosoi.FetchOutcome{URL: url, BlockReason: "connection refused"}, nil
			},
		}

		deps, stdout, stderr := scrapeDeps(p)
		cmd := &main.ScrapeCmd{URLs: []string{
			"https://blocked.example.com/x",
			"https://down.example.com/y",
		}}

		err := cmd.Run(deps)

		require.Error(t, err, "a batch with zero successes fails")
		errOutput := stderr.String()
		assert.Contains(t, errOutput, "BOT-BLOCKED https://blocked.example.com/x")
		assert.Contains(t, errOutput, "FAILED      https://down.example.com/y")
		assert.Contains(t, stdout.String(), "0 succeeded, 1 failed, 1 bot-blocked")
	})

	t.Run("writes content files when an output directory is set", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		deps, stdout, _ := scrapeDeps(scrapePipeline())
		deps.Writer = fs.NewWriter(dir, fs.FormatJSON, nil)

		cmd := &main.ScrapeCmd{URLs: []string{"https://example.com/article"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		path := filepath.Join(dir, "example.com_article.json")
		assert.Contains(t, stdout.String(), path)
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	})

	t.Run("prints extracted content as JSON without an output directory", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := scrapeDeps(scrapePipeline())
		cmd := &main.ScrapeCmd{URLs: []string{"https://example.com/article"}}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"headline": "Title"`)
	})
}
