package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsread"
	"github.com/fwojciec/newsread/gemini"
	"github.com/fwojciec/newsread/gnews"
	"github.com/fwojciec/newsread/htmltomarkdown"
	nslog "github.com/fwojciec/newsread/slog"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Nil fields are wired from flags.
	Scraper    newsread.Scraper
	Summarizer newsread.Summarizer
	Headlines  newsread.HeadlineService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsread"),
		kong.Description("Extract readable article content from news sites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsread --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger, err := newLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}
	deps.Logger = logger

	switch cmd {
	case "serve", "scrape", "summarize":
		deps.Scraper = m.Scraper
		if deps.Scraper == nil {
			deps.Scraper = newScraper(cli.Browser, cli.Pipeline, logger)
		}
	}

	switch cmd {
	case "scrape":
		deps.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(originOf(cli.Scrape.URL)))
	case "summarize":
		deps.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(originOf(cli.Summarize.URL)))
	}

	switch cmd {
	case "serve", "summarize":
		deps.Summarizer = m.Summarizer
		if deps.Summarizer == nil {
			s, err := m.newSummarizer(ctx, cli, stderr, cmd == "serve")
			if err != nil {
				return err
			}
			deps.Summarizer = nslog.NewLoggingSummarizer(s, logger)
		}
	}

	switch cmd {
	case "serve", "news":
		deps.Headlines = m.Headlines
		if deps.Headlines == nil {
			if cli.GNewsAPIKey == "" {
				logger.Warn("GNEWS_API_KEY not set; headline requests will fail")
			}
			deps.Headlines = nslog.NewLoggingHeadlineService(gnews.NewHeadlineService(cli.GNewsAPIKey), logger)
		}
	}

	return kongCtx.Run(deps)
}

// newSummarizer connects to Gemini. Without an API key the server still
// starts and reports summarization as unavailable; the CLI fails fast.
func (m *Main) newSummarizer(ctx context.Context, cli *CLI, stderr io.Writer, lenient bool) (newsread.Summarizer, error) {
	if cli.GeminiAPIKey == "" {
		if lenient {
			return unavailableSummarizer{}, nil
		}
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cli.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	var opts []gemini.Option
	if cli.Pipeline.MaxSummaryTokens > 0 {
		counter, err := gemini.NewTokenCounter(gemini.DefaultModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		opts = append(opts, gemini.WithTokenBudget(counter, cli.Pipeline.MaxSummaryTokens))
	}
	return gemini.NewSummarizer(client, opts...), nil
}

// unavailableSummarizer stands in for Gemini when no API key is configured.
type unavailableSummarizer struct{}

func (unavailableSummarizer) Summarize(context.Context, string) (string, error) {
	return "", newsread.Errorf(newsread.EUNAVAILABLE, "GEMINI_API_KEY not set")
}
