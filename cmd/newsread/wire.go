package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/fwojciec/newsread"
	"github.com/fwojciec/newsread/chromedp"
	"github.com/fwojciec/newsread/goquery"
	"github.com/fwojciec/newsread/readability"
	"github.com/fwojciec/newsread/rod"
	"github.com/fwojciec/newsread/scrape"
	nslog "github.com/fwojciec/newsread/slog"
	"github.com/fwojciec/newsread/trafilatura"
)

// newLogger returns a slog logger writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// newRenderer returns the browser engine named by engine.
func newRenderer(engine string, config newsread.BrowserConfig) newsread.Renderer {
	if engine == "chromedp" {
		return chromedp.NewRenderer(config)
	}
	return rod.NewRenderer(config)
}

// newExtractor returns the article extractor named by name.
func newExtractor(name string) newsread.Extractor {
	if name == "trafilatura" {
		return trafilatura.NewExtractor()
	}
	return readability.NewExtractor()
}

// newScraper assembles the scrape stack: per-host throttle, then the
// browser session limit, then the pipeline itself.
func newScraper(browser BrowserFlags, pipeline PipelineFlags, logger *slog.Logger) newsread.Scraper {
	renderer := nslog.NewLoggingRenderer(newRenderer(browser.Engine, browser.Config()), logger)

	var s newsread.Scraper = scrape.NewPipeline(
		renderer,
		newExtractor(pipeline.Extractor),
		goquery.NewSanitizer(),
		scrape.WithNavigationTimeout(pipeline.NavigationTimeout),
		scrape.WithReadyTimeout(pipeline.ReadyTimeout),
		scrape.WithLogger(logger),
	)
	s = scrape.NewAdmission(s, pipeline.MaxSessions)
	s = scrape.NewThrottle(s, pipeline.HostRPS)
	return nslog.NewLoggingScraper(s, logger)
}

// originOf returns the scheme and host of rawURL, or "" if it has none.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
