package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/fs"
	"github.com/CascadingLabs/yosoi/pipeline"
	"github.com/CascadingLabs/yosoi/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB        *sqlite.DB
	Selectors yosoi.SelectorService
	Usage     yosoi.UsageService
	Content   yosoi.ContentService

	Pipeline *pipeline.Pipeline
	Writer   *fs.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape    ScrapeCmd    `cmd:"" help:"Discover selectors and extract content from URLs"`
	Selectors SelectorsCmd `cmd:"" help:"List cached selectors per domain"`
	Stats     StatsCmd     `cmd:"" help:"Show per-domain usage statistics"`
	Reset     ResetCmd     `cmd:"" help:"Reset usage statistics"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs             []string `arg:"" help:"URLs to scrape"`
	Force            bool     `short:"f" help:"Ignore cached selectors and re-run discovery"`
	SkipVerification bool     `help:"Extract with candidate selectors without verifying them first"`
	Fetcher          string   `default:"waterfall" enum:"simple,browser,waterfall" help:"Fetch tier (simple, browser, waterfall)"`
	Format           string   `default:"json" enum:"json,markdown" help:"Content output format"`
	Output           string   `short:"o" help:"Directory to write extracted content files (omit to skip file output)"`
}

// SelectorsCmd is the "selectors" subcommand.
type SelectorsCmd struct {
	Domain string `arg:"" optional:"" help:"Show the cached selector map for one domain"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	Domain string `arg:"" optional:"" help:"Domain to reset (all domains when omitted)"`
}
