// Package slog provides logging decorators for yosoi services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/CascadingLabs/yosoi"
)

// Ensure LoggingFetcher implements yosoi.Fetcher at compile time.
var _ yosoi.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with structured logging of each fetch:
// status, blocking, classification, timing.
type LoggingFetcher struct {
	next   yosoi.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next yosoi.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
	begin := time.Now()
	outcome, err := f.next.Fetch(ctx, url)

	if err != nil {
		f.logger.Warn("fetch",
			"url", url,
			"err", err.Error(),
			"duration", time.Since(begin),
		)
		return outcome, err
	}

	attrs := []any{
		"url", url,
		"status", outcome.StatusCode,
		"bytes", len(outcome.HTML),
		"duration", time.Since(begin),
	}
	if outcome.Blocked {
		attrs = append(attrs, "blocked", true, "reason", outcome.BlockReason)
	}
	if outcome.Classification.IsFeed {
		attrs = append(attrs, "feed", true)
	}
	if outcome.Classification.RequiresScriptRendering {
		attrs = append(attrs, "scriptRendered", true, "framework", outcome.Classification.Framework)
	}
	f.logger.Info("fetch", attrs...)

	return outcome, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
