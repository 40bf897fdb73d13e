package main

import (
	"strings"

	nhttp "github.com/fwojciec/newsread/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := nhttp.NewServer(deps.Scraper, deps.Summarizer, deps.Headlines,
		nhttp.WithClientURL(c.ClientURL),
		nhttp.WithLogger(deps.Logger),
	)
	return srv.ListenAndServe(deps.Ctx, listenAddr(c.Addr))
}

// listenAddr accepts a bare port, as set by PORT on most hosts.
func listenAddr(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
