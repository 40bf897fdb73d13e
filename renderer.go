package newsread

import "context"

// DefaultUserAgent is a desktop Chrome user agent presented to news sites.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultContentSelectors mark primary article containers across typical
// news sites, in priority order.
var DefaultContentSelectors = []string{"article", ".story-content", ".article-body"}

// BrowserConfig configures the browser launched for each render session.
type BrowserConfig struct {
	// Sandboxed keeps the browser's OS-level sandbox enabled.
	// Containers without user namespaces need this off.
	Sandboxed bool

	// BlockSubresources aborts image, font, stylesheet and media requests.
	BlockSubresources bool

	// ExecutablePath overrides browser discovery when non-empty.
	ExecutablePath string

	// UserAgent overrides DefaultUserAgent when non-empty.
	UserAgent string

	// SingleProcess runs the browser in single-process mode.
	SingleProcess bool
}

// UserAgentOrDefault returns the configured user agent or DefaultUserAgent.
func (c BrowserConfig) UserAgentOrDefault() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return DefaultUserAgent
}

// Renderer starts browser sessions.
type Renderer interface {
	// Open launches a fresh, isolated browser and returns a session bound to it.
	// The caller must Close the session on every exit path.
	Open(ctx context.Context) (Session, error)
}

// Session is a single browser tab owned by one extraction.
// The context passed to each method bounds that call only.
type Session interface {
	// Navigate loads url and returns once the DOM has been parsed.
	// Subresource completion is not awaited.
	Navigate(ctx context.Context, url string) error

	// WaitReady blocks until an element matching any of selectors exists.
	WaitReady(ctx context.Context, selectors []string) error

	// HTML returns the serialized outer HTML of the document element.
	HTML(ctx context.Context) (string, error)

	// FirstText returns the trimmed innerText of the first element, in
	// selector order, whose text is non-empty. It returns an empty string
	// when nothing matches.
	FirstText(ctx context.Context, selectors []string) (string, error)

	// Title returns the document title.
	Title(ctx context.Context) (string, error)

	// Close terminates the tab and the browser process.
	// Close is safe to call multiple times.
	Close() error
}
