package main

import (
	"fmt"

	"github.com/CascadingLabs/yosoi"
)

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if err := deps.Usage.ResetUsage(deps.Ctx, c.Domain); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", yosoi.ErrorMessage(err))
		return err
	}

	if c.Domain == "" {
		fmt.Fprintln(deps.Stdout, "Usage statistics reset for all domains.")
	} else {
		fmt.Fprintf(deps.Stdout, "Usage statistics reset for %s.\n", c.Domain)
	}
	return nil
}
