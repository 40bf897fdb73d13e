package chromedp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/newsread"
)

// Ensure Session implements newsread.Session at compile time.
var _ newsread.Session = (*Session)(nil)

// firstTextJS returns the innerText of the first selector match with
// non-blank text.
const firstTextJS = `(selectors) => {
	for (const selector of selectors) {
		const el = document.querySelector(selector);
		const text = el && el.innerText ? el.innerText.trim() : "";
		if (text) {
			return text;
		}
	}
	return "";
}`

// Session is one browser process driven through its first tab.
type Session struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// Navigate loads url and waits for DOMContentLoaded.
func (s *Session) Navigate(ctx context.Context, url string) error {
	loaded := make(chan struct{})
	var once sync.Once

	lctx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	chromedp.ListenTarget(lctx, func(ev any) {
		if _, ok := ev.(*page.EventDomContentEventFired); ok {
			once.Do(func() { close(loaded) })
		}
	})

	var sameDocument bool
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, loaderID, errorText, _, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("navigation failed: %s", errorText)
		}
		// No loader means a fragment change; the current document stays.
		sameDocument = loaderID == ""
		return nil
	}))
	if err != nil {
		return err
	}
	if sameDocument {
		return nil
	}

	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitReady blocks until any of selectors matches an element.
func (s *Session) WaitReady(ctx context.Context, selectors []string) error {
	if len(selectors) == 0 {
		return nil
	}
	return s.run(ctx, chromedp.WaitReady(strings.Join(selectors, ", "), chromedp.ByQuery))
}

// HTML returns the outer HTML of the document element.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// FirstText returns the first non-blank innerText among selectors.
func (s *Session) FirstText(ctx context.Context, selectors []string) (string, error) {
	if len(selectors) == 0 {
		return "", nil
	}
	arg, err := json.Marshal(selectors)
	if err != nil {
		return "", err
	}
	var text string
	expr := fmt.Sprintf("(%s)(%s)", firstTextJS, arg)
	if err := s.run(ctx, chromedp.Evaluate(expr, &text)); err != nil {
		return "", err
	}
	return text, nil
}

// Title returns the document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

// Close closes the browser and waits for its process to exit.
// Close is safe to call multiple times.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if c := chromedp.FromContext(s.tabCtx); c != nil && c.Browser != nil {
			s.closeErr = chromedp.Cancel(s.tabCtx)
		}
		s.cancelTab()
		s.cancelAlloc()
	})
	return s.closeErr
}

// PID returns the process ID of the browser.
// This method exists for testing purposes to verify proper cleanup.
func (s *Session) PID() int {
	c := chromedp.FromContext(s.tabCtx)
	if c == nil || c.Browser == nil {
		return 0
	}
	p := c.Browser.Process()
	if p == nil {
		return 0
	}
	return p.Pid
}

// run executes actions on the tab, bounded by ctx. The tab context itself
// is never cancelled here so the session survives a per-call timeout.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
