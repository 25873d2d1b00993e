package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/CascadingLabs/yosoi"
	"github.com/CascadingLabs/yosoi/fs"
	"github.com/CascadingLabs/yosoi/gemini"
	"github.com/CascadingLabs/yosoi/gofeed"
	"github.com/CascadingLabs/yosoi/goquery"
	"github.com/CascadingLabs/yosoi/htmltomarkdown"
	yosoihttp "github.com/CascadingLabs/yosoi/http"
	"github.com/CascadingLabs/yosoi/pipeline"
	"github.com/CascadingLabs/yosoi/rod"
	yosoislog "github.com/CascadingLabs/yosoi/slog"
	"github.com/CascadingLabs/yosoi/sqlite"
	"github.com/alecthomas/kong"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services exposed for end-to-end testing.
	SelectorService yosoi.SelectorService
	UsageService    yosoi.UsageService
	ContentService  yosoi.ContentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("yosoi"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'yosoi --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set YOSOI_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SelectorService = sqlite.NewSelectorService(m.DB)
	m.UsageService = sqlite.NewUsageService(m.DB)
	m.ContentService = sqlite.NewContentService(m.DB)
	deps.DB = m.DB
	deps.Selectors = m.SelectorService
	deps.Usage = m.UsageService
	deps.Content = m.ContentService

	if cmd == "scrape" {
		fetcher, err := buildFetcher(cli.Scrape.Fetcher, logger)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		discoverer, err := buildDiscoverer(ctx, stderr, logger)
		if err != nil {
			return err
		}

		deps.Pipeline = &pipeline.Pipeline{
			Fetcher:    fetcher,
			Reducer:    goquery.NewReducer(),
			Discoverer: discoverer,
			Verifier:   goquery.NewVerifier(),
			Extractor:  goquery.NewExtractor(),
			Selectors:  m.SelectorService,
			Usage:      m.UsageService,
			Content:    m.ContentService,
			Feeds:      gofeed.NewParser(),
			Logger:     logger,
		}

		if cli.Scrape.Output != "" {
			deps.Writer = fs.NewWriter(cli.Scrape.Output,
				fs.Format(cli.Scrape.Format),
				htmltomarkdown.NewConverter())
		}
	}

	return kongCtx.Run(deps)
}

// buildFetcher assembles the requested fetch tier. The browser and
// waterfall tiers need Chrome installed; the simple tier runs anywhere.
func buildFetcher(tier string, logger *slog.Logger) (yosoi.Fetcher, error) {
	classifier := goquery.NewClassifier()
	limiter := pipeline.NewDomainLimiter(2 * time.Second)

	simple := yosoihttp.NewFetcher(classifier, yosoihttp.WithLimiter(limiter))

	switch tier {
	case "simple":
		return yosoislog.NewLoggingFetcher(simple, logger), nil
	case "browser":
		browser, err := rod.NewFetcher(classifier)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (is Chrome installed?): %w", err)
		}
		return yosoislog.NewLoggingFetcher(browser, logger), nil
	case "waterfall":
		browser, err := rod.NewFetcher(classifier)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (is Chrome installed?): %w", err)
		}
		waterfall := &pipeline.WaterfallFetcher{Simple: simple, Browser: browser}
		return yosoislog.NewLoggingFetcher(waterfall, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetch tier %q", tier)
	}
}

func buildDiscoverer(ctx context.Context, stderr io.Writer, logger *slog.Logger) (yosoi.Discoverer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return yosoislog.NewLoggingDiscoverer(gemini.NewDiscoverer(client), logger), nil
}

func defaultDBPath() string {
	if path := os.Getenv("YOSOI_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "yosoi.db"
	}
	dir := filepath.Join(home, ".yosoi")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "yosoi.db")
}
