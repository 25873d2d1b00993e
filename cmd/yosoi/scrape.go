package main

import (
	"encoding/json"
	"fmt"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/pipeline"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	opts := pipeline.Options{
		Force:            c.Force,
		SkipVerification: c.SkipVerification,
	}

	results := deps.Pipeline.ProcessBatch(deps.Ctx, c.URLs, opts)

	var succeeded, softFailed, aborted int
	for _, res := range results {
		switch res.Status {
		case pipeline.StatusSuccess:
			succeeded++
			c.printSuccess(deps, res)
		case pipeline.StatusSoftFailure:
			softFailed++
			fmt.Fprintf(deps.Stderr, "FAILED      %s: %s\n", res.URL, res.Reason)
		case pipeline.StatusHardAbort:
			aborted++
			fmt.Fprintf(deps.Stderr, "BOT-BLOCKED %s: %s\n", res.URL, res.Reason)
		}

		if res.Status == pipeline.StatusSuccess && deps.Writer != nil && res.Content != nil {
			rec := &yosoi.ContentRecord{URL: res.URL, Domain: res.Domain, Content: res.Content}
			path, err := deps.Writer.Write(rec)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error writing %s: %s\n", res.URL, err)
				continue
			}
			fmt.Fprintf(deps.Stdout, "  wrote %s\n", path)
		}
	}

	fmt.Fprintf(deps.Stdout, "\n%d succeeded, %d failed, %d bot-blocked (%d URLs)\n",
		succeeded, softFailed, aborted, len(results))

	if succeeded == 0 && len(results) > 0 {
		return yosoi.Errorf(yosoi.EINTERNAL, "no URL processed successfully")
	}
	return nil
}

func (c *ScrapeCmd) printSuccess(deps *Dependencies, res *pipeline.URLResult) {
	source := "oracle"
	if res.CacheHit {
		source = "cache"
	} else if !res.UsedOracle {
		source = "heuristics"
	}

	verified := ""
	if res.Verification != nil {
		verified = fmt.Sprintf(", %d/%d fields verified",
			res.Verification.VerifiedCount, res.Verification.TotalFields)
	}
	fmt.Fprintf(deps.Stdout, "OK          %s (selectors: %s%s)\n", res.URL, source, verified)

	if res.Feed != nil {
		fmt.Fprintf(deps.Stdout, "  feed: %s (%d entries)\n", res.Feed.Title, len(res.Feed.Links))
	}

	if deps.Writer == nil && res.Content != nil {
		out, err := json.MarshalIndent(res.Content, "  ", "  ")
		if err == nil {
			fmt.Fprintf(deps.Stdout, "  %s\n", out)
		}
	}
}
