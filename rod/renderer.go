// Package rod implements newsread.Renderer with go-rod browser automation.
package rod

import (
	"context"
	"fmt"

	"github.com/fwojciec/newsread"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Renderer implements newsread.Renderer at compile time.
var _ newsread.Renderer = (*Renderer)(nil)

// Renderer launches one headless Chrome process per session.
// Renderer is safe for concurrent use; sessions share nothing.
type Renderer struct {
	config newsread.BrowserConfig
}

// NewRenderer creates a new Renderer with the given browser configuration.
func NewRenderer(config newsread.BrowserConfig) *Renderer {
	return &Renderer{config: config}
}

// Open launches a browser, connects to it and opens a blank tab.
// Launch and connect give up when ctx is done; the session itself is not
// bound to ctx. On error every resource acquired so far has already been
// released.
func (r *Renderer) Open(ctx context.Context) (newsread.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := r.launcher().Context(ctx)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	s := &Session{launcher: l}

	client, err := cdp.StartWithURL(ctx, u, nil)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	browser := rod.New().Client(client)
	if err := browser.Connect(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	s.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	s.page = page

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: r.config.UserAgentOrDefault(),
	}); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("setting user agent: %w", err)
	}

	if r.config.BlockSubresources {
		if err := s.blockSubresources(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("blocking subresources: %w", err)
		}
	}

	return s, nil
}

// launcher builds a launcher with stability and low-profile flags.
func (r *Renderer) launcher() *launcher.Launcher {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-blink-features", "AutomationControlled").
		NoSandbox(!r.config.Sandboxed).
		Leakless(true).
		Headless(true)

	if r.config.SingleProcess {
		l = l.Set("single-process")
	}
	if r.config.ExecutablePath != "" {
		l = l.Bin(r.config.ExecutablePath)
	}
	return l
}
