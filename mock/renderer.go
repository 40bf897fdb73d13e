package mock

import (
	"context"

	"github.com/fwojciec/newsread"
)

var _ newsread.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of newsread.Renderer.
type Renderer struct {
	OpenFn func(ctx context.Context) (newsread.Session, error)
}

func (r *Renderer) Open(ctx context.Context) (newsread.Session, error) {
	return r.OpenFn(ctx)
}

var _ newsread.Session = (*Session)(nil)

// Session is a mock implementation of newsread.Session.
type Session struct {
	NavigateFn  func(ctx context.Context, url string) error
	WaitReadyFn func(ctx context.Context, selectors []string) error
	HTMLFn      func(ctx context.Context) (string, error)
	FirstTextFn func(ctx context.Context, selectors []string) (string, error)
	TitleFn     func(ctx context.Context) (string, error)
	CloseFn     func() error
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.NavigateFn(ctx, url)
}

func (s *Session) WaitReady(ctx context.Context, selectors []string) error {
	return s.WaitReadyFn(ctx, selectors)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.HTMLFn(ctx)
}

func (s *Session) FirstText(ctx context.Context, selectors []string) (string, error) {
	return s.FirstTextFn(ctx, selectors)
}

func (s *Session) Title(ctx context.Context) (string, error) {
	return s.TitleFn(ctx)
}

func (s *Session) Close() error {
	return s.CloseFn()
}
