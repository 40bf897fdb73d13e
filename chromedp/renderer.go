// Package chromedp implements newsread.Renderer with the chromedp DevTools
// client. It is an alternative to the rod package for hosts where the
// chromedp allocator is easier to run.
package chromedp

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/newsread"
)

// Ensure Renderer implements newsread.Renderer at compile time.
var _ newsread.Renderer = (*Renderer)(nil)

// blockedResourceTypes are failed at the Fetch domain when subresource
// blocking is enabled.
var blockedResourceTypes = []network.ResourceType{
	network.ResourceTypeImage,
	network.ResourceTypeFont,
	network.ResourceTypeStylesheet,
	network.ResourceTypeMedia,
}

// Renderer starts one Chrome process per session through an exec allocator.
type Renderer struct {
	config newsread.BrowserConfig
}

// NewRenderer creates a new Renderer with the given browser configuration.
func NewRenderer(config newsread.BrowserConfig) *Renderer {
	return &Renderer{config: config}
}

// Open starts a browser and its first tab. On error the browser process
// has already been stopped.
func (r *Renderer) Open(ctx context.Context) (newsread.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), r.allocatorOptions()...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...any) {}),
	)
	s := &Session{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}

	// The browser process is bound to the context of the first Run, so the
	// launch runs on the tab context and ctx only aborts it.
	stop := context.AfterFunc(ctx, cancelTab)
	err := chromedp.Run(tabCtx)
	stop()
	if err != nil {
		_ = s.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("launching browser: %w", ctxErr)
		}
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	if r.config.BlockSubresources {
		if err := s.blockSubresources(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("blocking subresources: %w", err)
		}
	}

	return s, nil
}

func (r *Renderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(r.config.UserAgentOrDefault()),
	)
	if !r.config.Sandboxed {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.config.SingleProcess {
		opts = append(opts, chromedp.Flag("single-process", true))
	}
	if r.config.ExecutablePath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecutablePath))
	}
	return opts
}

func (s *Session) blockSubresources(ctx context.Context) error {
	patterns := make([]*fetch.RequestPattern, 0, len(blockedResourceTypes))
	for _, t := range blockedResourceTypes {
		patterns = append(patterns, &fetch.RequestPattern{URLPattern: "*", ResourceType: t})
	}

	// Only blocked types are paused, so every paused request is failed.
	chromedp.ListenTarget(s.tabCtx, func(ev any) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(s.tabCtx)
			execCtx := cdp.WithExecutor(s.tabCtx, c.Target)
			_ = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
		}()
	})

	return s.run(ctx, fetch.Enable().WithPatterns(patterns))
}
