package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsread"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Scraper    newsread.Scraper
	Summarizer newsread.Summarizer
	Headlines  newsread.HeadlineService
	Converter  newsread.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `default:"info" enum:"debug,info,warn,error" env:"NEWSREAD_LOG_LEVEL" help:"Log level (${enum})"`
	LogFormat string `default:"text" enum:"text,json" env:"NEWSREAD_LOG_FORMAT" help:"Log format (${enum})"`

	Browser  BrowserFlags  `embed:"" group:"Browser"`
	Pipeline PipelineFlags `embed:"" group:"Pipeline"`

	GNewsAPIKey  string `name:"gnews-api-key" env:"GNEWS_API_KEY" hidden:"" help:"GNews API key"`
	GeminiAPIKey string `name:"gemini-api-key" env:"GEMINI_API_KEY" hidden:"" help:"Gemini API key"`

	Serve     ServeCmd     `cmd:"" help:"Run the HTTP API server"`
	Scrape    ScrapeCmd    `cmd:"" help:"Extract the article at a URL"`
	Summarize SummarizeCmd `cmd:"" help:"Extract and summarize the article at a URL"`
	News      NewsCmd      `cmd:"" help:"List top headlines"`
}

// BrowserFlags configure the headless browser.
type BrowserFlags struct {
	Engine         string `default:"rod" enum:"rod,chromedp" help:"Browser automation engine (${enum})"`
	BrowserPath    string `env:"NEWSREAD_BROWSER_PATH" help:"Path to a Chrome or Chromium binary"`
	Sandbox        bool   `help:"Keep the browser sandbox enabled"`
	SingleProcess  bool   `help:"Run the browser as a single process (low-memory hosts)"`
	BlockResources bool   `default:"true" negatable:"" help:"Abort image, font, stylesheet and media requests"`
	UserAgent      string `help:"Override the desktop Chrome user agent"`
}

// Config returns the browser configuration described by the flags.
func (f BrowserFlags) Config() newsread.BrowserConfig {
	return newsread.BrowserConfig{
		Sandboxed:         f.Sandbox,
		BlockSubresources: f.BlockResources,
		ExecutablePath:    f.BrowserPath,
		UserAgent:         f.UserAgent,
		SingleProcess:     f.SingleProcess,
	}
}

// PipelineFlags configure extraction, timeouts and admission.
type PipelineFlags struct {
	Extractor         string        `default:"readability" enum:"readability,trafilatura" help:"Article extractor (${enum})"`
	NavigationTimeout time.Duration `default:"60s" help:"Navigation timeout per page"`
	ReadyTimeout      time.Duration `default:"15s" help:"How long to wait for article content to appear"`
	MaxSessions       int64         `default:"4" help:"Maximum concurrent browser sessions"`
	HostRPS           float64       `name:"host-rps" default:"1.0" help:"Scrapes per second per host (0 disables)"`
	MaxSummaryTokens  int           `default:"200000" help:"Truncate summarizer input to this many tokens (0 disables)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `default:":5000" env:"PORT" help:"Listen address or port"`
	ClientURL string `env:"CLIENT_URL" help:"Origin of the deployed web client allowed by CORS"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL      string `arg:"" help:"Article URL"`
	JSON     bool   `help:"Print the article as JSON"`
	Markdown bool   `short:"m" help:"Convert extracted HTML to Markdown"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	URL string `arg:"" help:"Article URL"`
}

// NewsCmd is the "news" subcommand.
type NewsCmd struct {
	JSON bool `help:"Print headlines as JSON"`
}
