package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/newsread"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	article := deps.Scraper.Scrape(deps.Ctx, c.URL)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(article); err != nil {
			return err
		}
	} else {
		content := article.Content
		if c.Markdown {
			md, err := newsread.PlainContent(article, deps.Converter)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", newsread.ErrorMessage(err))
				return err
			}
			content = md
		}
		fmt.Fprintln(deps.Stdout, article.Title)
		if article.Byline != "" {
			fmt.Fprintln(deps.Stdout, article.Byline)
		}
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, content)
	}

	if article.Failed() {
		return newsread.Errorf(newsread.EUNAVAILABLE, "scraping %s failed", c.URL)
	}
	return nil
}
