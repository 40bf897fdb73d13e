package main

import (
	"fmt"

	"github.com/fwojciec/newsread"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	article := deps.Scraper.Scrape(deps.Ctx, c.URL)
	switch {
	case article.Failed():
		fmt.Fprintf(deps.Stderr, "error: %s\n", article.Content)
		return newsread.Errorf(newsread.EUNAVAILABLE, "scraping %s failed", c.URL)
	case article.NotFound():
		fmt.Fprintf(deps.Stderr, "error: no article content found at %s\n", c.URL)
		return newsread.Errorf(newsread.ENOTFOUND, "no article content at %s", c.URL)
	}

	text, err := newsread.PlainContent(article, deps.Converter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsread.ErrorMessage(err))
		return err
	}

	summary, err := deps.Summarizer.Summarize(deps.Ctx, text)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsread.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, article.Title)
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, summary)
	return nil
}
