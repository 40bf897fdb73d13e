package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/newsread"
)

// Run executes the news command.
func (c *NewsCmd) Run(deps *Dependencies) error {
	headlines, err := deps.Headlines.TopHeadlines(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsread.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(headlines)
	}

	if len(headlines) == 0 {
		fmt.Fprintln(deps.Stdout, "No headlines.")
		return nil
	}
	for _, h := range headlines {
		fmt.Fprintf(deps.Stdout, "%d. %s", h.ID, h.Title)
		if h.Source != "" {
			fmt.Fprintf(deps.Stdout, " (%s)", h.Source)
		}
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintf(deps.Stdout, "   %s\n", h.URL)
	}
	return nil
}
