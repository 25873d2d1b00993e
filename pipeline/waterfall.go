package pipeline

import (
	"context"
	"errors"

	"github.com/CascadingLabs/yosoi"
)

var _ yosoi.Fetcher = (*WaterfallFetcher)(nil)

// WaterfallFetcher composes fetch tiers: it tries the cheap simple tier
// first and escalates to the browser tier only when the simple tier is
// blocked by bot detection. A BotDetectedError from the browser tier
// propagates; there is no further tier to escalate to.
type WaterfallFetcher struct {
	Simple  yosoi.Fetcher
	Browser yosoi.Fetcher
}

// Fetch attempts the simple tier, escalating to the browser tier on bot
// detection. Non-block failures from the simple tier are returned as-is
// without escalation.
func (f *WaterfallFetcher) Fetch(ctx context.Context, url string) (*yosoi.FetchOutcome, error) {
	outcome, err := f.Simple.Fetch(ctx, url)
	if yosoi.IsBotDetected(err) {
		return f.Browser.Fetch(ctx, url)
	}
	return outcome, err
}

// Close releases both tiers' resources.
func (f *WaterfallFetcher) Close() error {
	return errors.Join(f.Simple.Close(), f.Browser.Close())
}
