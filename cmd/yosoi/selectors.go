package main

import (
	"fmt"

	"github.com/CascadingLabs/yosoi"
)

// Run executes the selectors command.
func (c *SelectorsCmd) Run(deps *Dependencies) error {
	if c.Domain != "" {
		return c.showDomain(deps)
	}

	domains, err := deps.Selectors.ListDomains(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", yosoi.ErrorMessage(err))
		return err
	}

	if len(domains) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached selectors. Use 'yosoi scrape' to discover some.")
		return nil
	}

	for _, domain := range domains {
		fmt.Fprintln(deps.Stdout, domain)
	}
	return nil
}

func (c *SelectorsCmd) showDomain(deps *Dependencies) error {
	entry, err := deps.Selectors.LoadSelectors(deps.Ctx, c.Domain)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", yosoi.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s (saved %s)\n", entry.Domain, entry.SavedAt.Format("2006-01-02 15:04"))
	for _, field := range yosoi.Fields() {
		set, ok := entry.Selectors[field]
		if !ok {
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %-16s primary=%q fallback=%q tertiary=%q\n",
			field, set.Primary, set.Fallback, set.Tertiary)
	}
	return nil
}
