package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/CascadingLabs/yosoi"
)

// Ensure LoggingDiscoverer implements yosoi.Discoverer at compile time.
var _ yosoi.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with structured logging of each
// oracle call. Oracle calls are the expensive part of the pipeline, so
// every one of them is worth a log line.
type LoggingDiscoverer struct {
	next   yosoi.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next yosoi.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover delegates to the wrapped discoverer and logs the outcome.
func (d *LoggingDiscoverer) Discover(ctx context.Context, urlContext, reducedHTML string) (yosoi.CandidateMap, error) {
	begin := time.Now()
	candidates, err := d.next.Discover(ctx, urlContext, reducedHTML)

	if err != nil {
		d.logger.Warn("discovery",
			"url", urlContext,
			"inputBytes", len(reducedHTML),
			"err", err.Error(),
			"duration", time.Since(begin),
		)
		return nil, err
	}

	d.logger.Info("discovery",
		"url", urlContext,
		"inputBytes", len(reducedHTML),
		"fields", len(candidates),
		"allNA", candidates.AllNA(),
		"duration", time.Since(begin),
	)
	return candidates, nil
}
