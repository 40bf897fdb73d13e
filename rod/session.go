package rod

import (
	"context"
	nurl "net/url"
	"strings"
	"sync"

	"github.com/fwojciec/newsread"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Session implements newsread.Session at compile time.
var _ newsread.Session = (*Session)(nil)

// blockedResourceTypes are aborted when subresource blocking is enabled.
var blockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeStylesheet,
	proto.NetworkResourceTypeMedia,
}

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

// Session is one browser process with a single tab.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter

	closeOnce sync.Once
	closeErr  error
}

// Navigate loads url and waits for DOMContentLoaded. A change of fragment
// only scrolls the current document and returns once issued.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)

	if info, err := page.Info(); err == nil && fragmentOnly(info.URL, url) {
		return page.Navigate(url)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(url); err != nil {
		return err
	}
	wait()

	return ctx.Err()
}

// WaitReady blocks until any of selectors matches an element.
func (s *Session) WaitReady(ctx context.Context, selectors []string) error {
	if len(selectors) == 0 {
		return nil
	}
	_, err := s.page.Context(ctx).Element(strings.Join(selectors, ", "))
	return err
}

// HTML returns the outer HTML of the document element.
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// FirstText returns the first non-blank innerText among selectors.
func (s *Session) FirstText(ctx context.Context, selectors []string) (string, error) {
	if len(selectors) == 0 {
		return "", nil
	}
	res, err := s.page.Context(ctx).Eval(firstTextJS, selectors)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Title returns the document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Close stops request interception, closes the browser and kills the
// browser process. Close is safe to call multiple times.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.router != nil {
			_ = s.router.Stop()
		}
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
	return s.closeErr
}

// PID returns the process ID of the browser.
// This method exists for testing purposes to verify proper cleanup.
func (s *Session) PID() int {
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}

func (s *Session) blockSubresources() error {
	router := s.page.HijackRequests()
	for _, t := range blockedResourceTypes {
		err := router.Add("*", t, func(h *rod.Hijack) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
		if err != nil {
			return err
		}
	}
	s.router = router
	go router.Run()
	return nil
}

// fragmentOnly reports whether moving from current to target changes only
// the URL fragment, which browsers handle without loading a new document.
func fragmentOnly(current, target string) bool {
	cu, err := nurl.Parse(current)
	if err != nil {
		return false
	}
	tu, err := nurl.Parse(target)
	if err != nil || tu.Fragment == "" {
		return false
	}
	cu.Fragment, cu.RawFragment = "", ""
	tu.Fragment, tu.RawFragment = "", ""
	return cu.String() == tu.String()
}
