// Package http serves the newsread JSON API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/newsread"
	"github.com/rs/cors"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":5000"

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 90 * time.Second

// DefaultOrigins are the browser origins allowed by CORS in addition to
// the configured client URL.
var DefaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 4 << 20

// Server exposes headlines, scraping and summarization over HTTP.
type Server struct {
	scraper    newsread.Scraper
	summarizer newsread.Summarizer
	headlines  newsread.HeadlineService

	origins []string
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClientURL allows the deployed web client's origin through CORS.
// An empty url is ignored.
func WithClientURL(url string) Option {
	return func(s *Server) {
		if url != "" {
			s.origins = append(s.origins, url)
		}
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new Server.
func NewServer(
	scraper newsread.Scraper,
	summarizer newsread.Summarizer,
	headlines newsread.HeadlineService,
	opts ...Option,
) *Server {
	s := &Server{
		scraper:    scraper,
		summarizer: summarizer,
		headlines:  headlines,
		origins:    append([]string(nil), DefaultOrigins...),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API routes wrapped in CORS, logging and recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/news", s.handleNews)
	mux.HandleFunc("GET /api/newScrape", s.handleScrape)
	mux.HandleFunc("POST /api/summarize", s.handleSummarize)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", requestIDHeader},
		AllowCredentials: true,
	})

	return s.logRequests(s.recoverPanics(c.Handler(mux)))
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully so in-flight scrapes can finish and release their browsers.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
