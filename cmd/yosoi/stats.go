package main

import (
	"fmt"

	"github.com/CascadingLabs/yosoi"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	all, err := deps.Usage.AllUsage(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", yosoi.ErrorMessage(err))
		return err
	}

	if len(all) == 0 {
		fmt.Fprintln(deps.Stdout, "No usage recorded yet.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%-32s %8s %12s %14s\n", "DOMAIN", "URLS", "ORACLE CALLS", "URLS/CALL")
	var totalURLs, totalCalls int
	for _, usage := range all {
		fmt.Fprintf(deps.Stdout, "%-32s %8d %12d %14s\n",
			usage.Domain, usage.URLCount, usage.OracleCalls, ratio(usage.URLCount, usage.OracleCalls))
		totalURLs += usage.URLCount
		totalCalls += usage.OracleCalls
	}
	fmt.Fprintf(deps.Stdout, "%-32s %8d %12d %14s\n", "TOTAL", totalURLs, totalCalls, ratio(totalURLs, totalCalls))

	return nil
}

// ratio formats url_count per oracle call, the cache's cost-efficiency
// measure.
func ratio(urls, calls int) string {
	if calls == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", float64(urls)/float64(calls))
}
