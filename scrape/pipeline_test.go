package scrape_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/newsread"
	"github.com/fwojciec/newsread/goquery"
	"github.com/fwojciec/newsread/mock"
	"github.com/fwojciec/newsread/readability"
	"github.com/fwojciec/newsread/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
<title>Floods hit coastal towns after record rainfall</title>
<meta property="og:title" content="Floods hit coastal towns after record rainfall">
<style>@media screen { .broken { color: </style>
<script>window.__DATA__ = {"html": "<div>not content</div>"};</script>
</head>
<body>
<nav><a href="/">Home</a><a href="/world">World</a><a href="/sport">Sport</a></nav>
<article>
<h1>Floods hit coastal towns after record rainfall</h1>
<figure><img src="/flood.jpg" alt="Flooded street"><figcaption>Water rises along the promenade</figcaption></figure>
<p>Emergency crews evacuated hundreds of residents from low-lying neighbourhoods on Saturday after two days of record rainfall pushed rivers over their banks across the coastal region.</p>
<p>Officials said the water level at the main river gauge peaked just after midnight, nearly a metre above the previous high mark recorded more than thirty years ago.</p>
<p>Schools will remain closed on Monday while engineers inspect bridges and roads, and the regional government has promised emergency grants for families whose homes were damaged.</p>
</article>
<footer><p>Copyright Daily Planet</p></footer>
</body>
</html>`

// fakeBrowser hands out sessions built by newSession and counts their lifecycle.
type fakeBrowser struct {
	mu     sync.Mutex
	opens  int
	closes int
	calls  []string
}

func (b *fakeBrowser) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

// renderer returns a renderer whose sessions serve html and fall back to
// fallbackText. Individual session funcs can be overridden with customize.
func (b *fakeBrowser) renderer(html, fallbackText string, customize func(*mock.Session)) *mock.Renderer {
	return &mock.Renderer{
		OpenFn: func(ctx context.Context) (newsread.Session, error) {
			b.mu.Lock()
			b.opens++
			b.mu.Unlock()

			sess := &mock.Session{
				NavigateFn: func(ctx context.Context, url string) error {
					b.record("navigate")
					return nil
				},
				WaitReadyFn: func(ctx context.Context, selectors []string) error {
					b.record("wait")
					return nil
				},
				HTMLFn: func(ctx context.Context) (string, error) {
					b.record("html")
					return html, nil
				},
				FirstTextFn: func(ctx context.Context, selectors []string) (string, error) {
					b.record("firstText")
					return fallbackText, nil
				},
				TitleFn: func(ctx context.Context) (string, error) {
					b.record("title")
					return "Page Title", nil
				},
				CloseFn: func() error {
					b.mu.Lock()
					b.closes++
					b.mu.Unlock()
					return nil
				},
			}
			if customize != nil {
				customize(sess)
			}
			return sess, nil
		},
	}
}

func stubExtractor(result *newsread.ExtractResult, err error) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html, pageURL string) (*newsread.ExtractResult, error) {
			return result, err
		},
	}
}

func TestPipeline_Scrape_WellFormedArticle(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer(articlePage, "fallback text", nil),
		readability.NewExtractor(),
		goquery.NewSanitizer(),
	)

	article := p.Scrape(context.Background(), "https://news.example.com/floods")

	require.NotNil(t, article)
	assert.Equal(t, "Floods hit coastal towns after record rainfall", article.Title)
	assert.Equal(t, newsread.FormatHTML, article.Format)
	assert.Contains(t, article.Content, "evacuated hundreds of residents")
	assert.Contains(t, article.Content, "previous high mark")
	assert.Contains(t, article.Content, "emergency grants")
	assert.NotContains(t, article.Content, "<img")
	assert.NotContains(t, article.Content, "<figure")
	assert.NotContains(t, article.Content, "Water rises along the promenade")
	assert.NotContains(t, article.Content, "__DATA__")
	assert.False(t, article.Failed())
	assert.False(t, article.NotFound())
	assert.Equal(t, 1, browser.opens)
	assert.Equal(t, 1, browser.closes)
}

func TestPipeline_Scrape_UnreachableHost(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer("", "", func(s *mock.Session) {
			s.NavigateFn = func(ctx context.Context, url string) error {
				return errors.New("navigation failed: net::ERR_NAME_NOT_RESOLVED")
			}
		}),
		readability.NewExtractor(),
		goquery.NewSanitizer(),
	)

	article := p.Scrape(context.Background(), "https://does-not-exist.invalid/story")

	require.NotNil(t, article)
	assert.Equal(t, "Scraping Failed", article.Title)
	assert.Contains(t, article.Content, "net::ERR_NAME_NOT_RESOLVED")
	assert.True(t, article.Failed())
	assert.Equal(t, 1, browser.closes)
}

func TestPipeline_Scrape_NoRecognizableContent(t *testing.T) {
	t.Parallel()

	page := `<!DOCTYPE html>
<html>
<head><title>Loading</title></head>
<body></body>
</html>`

	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer(page, "", func(s *mock.Session) {
			s.WaitReadyFn = func(ctx context.Context, selectors []string) error {
				return context.DeadlineExceeded
			}
		}),
		readability.NewExtractor(),
		goquery.NewSanitizer(),
	)

	article := p.Scrape(context.Background(), "https://news.example.com/empty")

	require.NotNil(t, article)
	assert.Equal(t, "Content not found", article.Title)
	assert.True(t, article.NotFound())
	assert.Equal(t, 1, browser.closes)
}

func TestPipeline_Scrape_TierOrdering(t *testing.T) {
	t.Parallel()

	t.Run("heuristic result wins over selector fallback", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer("<html></html>", "selector text", nil),
			stubExtractor(&newsread.ExtractResult{
				Title:       "Heuristic Title",
				ContentHTML: "<p>Heuristic body</p>",
				TextContent: "Heuristic body",
			}, nil),
			mock.NopSanitizer(),
		)

		article := p.Scrape(context.Background(), "https://news.example.com/a")

		assert.Equal(t, "Heuristic Title", article.Title)
		assert.Equal(t, "<p>Heuristic body</p>", article.Content)
		assert.Equal(t, newsread.FormatHTML, article.Format)
		assert.NotContains(t, browser.calls, "firstText")
	})

	t.Run("selector fallback on extractor miss", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer("<html></html>", "  Selector body text  ", nil),
			stubExtractor(nil, newsread.Errorf(newsread.ENOTFOUND, "no readable content")),
			mock.NopSanitizer(),
		)

		article := p.Scrape(context.Background(), "https://news.example.com/a")

		assert.Equal(t, "Page Title", article.Title)
		assert.Equal(t, "Selector body text", article.Content)
		assert.Equal(t, newsread.FormatText, article.Format)
	})

	t.Run("selector fallback on extractor error", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer("<html></html>", "Selector body text", nil),
			stubExtractor(nil, errors.New("unexpected token")),
			mock.NopSanitizer(),
		)

		article := p.Scrape(context.Background(), "https://news.example.com/a")

		assert.Equal(t, "Selector body text", article.Content)
		assert.Equal(t, newsread.FormatText, article.Format)
	})

	t.Run("selector fallback on empty extractor content", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer("<html></html>", "Selector body text", nil),
			stubExtractor(&newsread.ExtractResult{Title: "T", ContentHTML: "<div></div>", TextContent: "   "}, nil),
			mock.NopSanitizer(),
		)

		article := p.Scrape(context.Background(), "https://news.example.com/a")

		assert.Equal(t, "Selector body text", article.Content)
	})

	t.Run("selector fallback when sanitizing empties the fragment", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		sanitizer := mock.NopSanitizer()
		sanitizer.SanitizeFragmentFn = func(html string) string { return "" }
		p := scrape.NewPipeline(
			browser.renderer("<html></html>", "Selector body text", nil),
			stubExtractor(&newsread.ExtractResult{Title: "T", ContentHTML: "<img src=x>", TextContent: "alt"}, nil),
			sanitizer,
		)

		article := p.Scrape(context.Background(), "https://news.example.com/a")

		assert.Equal(t, "Selector body text", article.Content)
	})

	t.Run("not found when both tiers are empty", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer("<html></html>", "   ", nil),
			stubExtractor(nil, newsread.Errorf(newsread.ENOTFOUND, "no readable content")),
			mock.NopSanitizer(),
		)

		article := p.Scrape(context.Background(), "https://news.example.com/a")

		assert.True(t, article.NotFound())
	})

	t.Run("page title used when heuristic title is empty", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer("<html></html>", "", nil),
			stubExtractor(&newsread.ExtractResult{ContentHTML: "<p>Body</p>", TextContent: "Body"}, nil),
			mock.NopSanitizer(),
		)

		article := p.Scrape(context.Background(), "https://news.example.com/a")

		assert.Equal(t, "Page Title", article.Title)
		assert.Equal(t, newsread.FormatHTML, article.Format)
	})
}

func TestPipeline_Scrape_ReadinessSoftFail(t *testing.T) {
	t.Parallel()

	t.Run("continues to extraction when selectors never appear", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer(articlePage, "", func(s *mock.Session) {
				s.WaitReadyFn = func(ctx context.Context, selectors []string) error {
					<-ctx.Done()
					return ctx.Err()
				}
			}),
			readability.NewExtractor(),
			goquery.NewSanitizer(),
			scrape.WithReadyTimeout(20*time.Millisecond),
			scrape.WithLogger(logger),
		)

		start := time.Now()
		article := p.Scrape(context.Background(), "https://news.example.com/floods")

		assert.Less(t, time.Since(start), 5*time.Second)
		assert.False(t, article.Failed())
		assert.Equal(t, newsread.FormatHTML, article.Format)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "content selectors not found")
	})

	t.Run("snapshot is captured after the readiness wait", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer(articlePage, "", nil),
			readability.NewExtractor(),
			goquery.NewSanitizer(),
		)

		p.Scrape(context.Background(), "https://news.example.com/floods")

		require.GreaterOrEqual(t, len(browser.calls), 3)
		assert.Equal(t, []string{"navigate", "wait", "html"}, browser.calls[:3])
	})
}

func TestPipeline_Scrape_Timeouts(t *testing.T) {
	t.Parallel()

	t.Run("navigation timeout yields failed sentinel", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer("", "", func(s *mock.Session) {
				s.NavigateFn = func(ctx context.Context, url string) error {
					<-ctx.Done()
					return ctx.Err()
				}
			}),
			readability.NewExtractor(),
			goquery.NewSanitizer(),
			scrape.WithNavigationTimeout(20*time.Millisecond),
		)

		article := p.Scrape(context.Background(), "https://slow.example.com/")

		assert.True(t, article.Failed())
		assert.Contains(t, article.Content, context.DeadlineExceeded.Error())
		assert.Equal(t, 1, browser.closes)
	})

	t.Run("readiness wait is bounded separately from navigation", func(t *testing.T) {
		t.Parallel()

		var readyDeadline, navDeadline time.Duration
		browser := &fakeBrowser{}
		p := scrape.NewPipeline(
			browser.renderer(articlePage, "", func(s *mock.Session) {
				s.NavigateFn = func(ctx context.Context, url string) error {
					deadline, ok := ctx.Deadline()
					require.True(t, ok)
					navDeadline = time.Until(deadline)
					return nil
				}
				s.WaitReadyFn = func(ctx context.Context, selectors []string) error {
					deadline, ok := ctx.Deadline()
					require.True(t, ok)
					readyDeadline = time.Until(deadline)
					return nil
				}
			}),
			readability.NewExtractor(),
			goquery.NewSanitizer(),
		)

		p.Scrape(context.Background(), "https://news.example.com/floods")

		assert.InDelta(t, scrape.DefaultNavigationTimeout.Seconds(), navDeadline.Seconds(), 1)
		assert.InDelta(t, scrape.DefaultReadyTimeout.Seconds(), readyDeadline.Seconds(), 1)
	})
}

func TestPipeline_Scrape_CarriesByline(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer("<html></html>", "", nil),
		stubExtractor(&newsread.ExtractResult{
			Title:       "Harbour Reopens",
			ContentHTML: "<p>Ferries resume service.</p>",
			TextContent: "Ferries resume service.",
			Byline:      "  By Asha Rao ",
		}, nil),
		mock.NopSanitizer(),
	)

	article := p.Scrape(context.Background(), "https://news.example.com/harbour")

	assert.Equal(t, "By Asha Rao", article.Byline)
	assert.Equal(t, newsread.FormatHTML, article.Format)
}

func TestPipeline_Scrape_UsesConfiguredSelectors(t *testing.T) {
	t.Parallel()

	var waited, queried []string
	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer("<html></html>", "", func(s *mock.Session) {
			s.WaitReadyFn = func(ctx context.Context, selectors []string) error {
				waited = selectors
				return nil
			}
			s.FirstTextFn = func(ctx context.Context, selectors []string) (string, error) {
				queried = selectors
				return "Main text", nil
			}
		}),
		stubExtractor(nil, newsread.Errorf(newsread.ENOTFOUND, "miss")),
		mock.NopSanitizer(),
		scrape.WithSelectors("main", ".post-body"),
	)

	article := p.Scrape(context.Background(), "https://news.example.com/a")

	assert.Equal(t, "Main text", article.Content)
	assert.Equal(t, []string{"main", ".post-body"}, waited)
	assert.Equal(t, []string{"main", ".post-body"}, queried)
}

func TestPipeline_Scrape_DefaultSelectors(t *testing.T) {
	t.Parallel()

	var waited []string
	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer(articlePage, "", func(s *mock.Session) {
			s.WaitReadyFn = func(ctx context.Context, selectors []string) error {
				waited = selectors
				return nil
			}
		}),
		readability.NewExtractor(),
		goquery.NewSanitizer(),
	)

	p.Scrape(context.Background(), "https://news.example.com/floods")

	assert.Equal(t, []string{"article", ".story-content", ".article-body"}, waited)
}

func TestPipeline_Scrape_SanitizesBeforeAndAfterExtraction(t *testing.T) {
	t.Parallel()

	var extractedFrom string
	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer("<html><style>x</style><body>raw</body></html>", "", nil),
		&mock.Extractor{
			ExtractFn: func(html, pageURL string) (*newsread.ExtractResult, error) {
				extractedFrom = html
				return &newsread.ExtractResult{Title: "T", ContentHTML: "<p>body</p>", TextContent: "body"}, nil
			},
		},
		&mock.Sanitizer{
			SanitizePageFn:     func(html string) string { return "page-clean" },
			SanitizeFragmentFn: func(html string) string { return "fragment-clean(" + html + ")" },
			SanitizeTextFn:     func(text string) string { return text },
		},
	)

	article := p.Scrape(context.Background(), "https://news.example.com/a")

	assert.Equal(t, "page-clean", extractedFrom)
	assert.Equal(t, "fragment-clean(<p>body</p>)", article.Content)
}

func TestPipeline_Scrape_ResourceSafety(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name      string
		customize func(*mock.Session)
		extractor *mock.Extractor
		failed    bool
	}{
		{
			name:      "heuristic success",
			extractor: stubExtractor(&newsread.ExtractResult{Title: "T", ContentHTML: "<p>x</p>", TextContent: "x"}, nil),
		},
		{
			name:      "selector fallback",
			extractor: stubExtractor(nil, boom),
		},
		{
			name: "not found",
			customize: func(s *mock.Session) {
				s.FirstTextFn = func(ctx context.Context, selectors []string) (string, error) { return "", nil }
			},
			extractor: stubExtractor(nil, boom),
		},
		{
			name: "navigation error",
			customize: func(s *mock.Session) {
				s.NavigateFn = func(ctx context.Context, url string) error { return boom }
			},
			extractor: stubExtractor(nil, boom),
			failed:    true,
		},
		{
			name: "readiness error",
			customize: func(s *mock.Session) {
				s.WaitReadyFn = func(ctx context.Context, selectors []string) error { return boom }
			},
			extractor: stubExtractor(nil, boom),
		},
		{
			name: "capture error",
			customize: func(s *mock.Session) {
				s.HTMLFn = func(ctx context.Context) (string, error) { return "", boom }
			},
			extractor: stubExtractor(nil, boom),
			failed:    true,
		},
		{
			name: "selector query error",
			customize: func(s *mock.Session) {
				s.FirstTextFn = func(ctx context.Context, selectors []string) (string, error) { return "", boom }
			},
			extractor: stubExtractor(nil, boom),
			failed:    true,
		},
		{
			name: "title error",
			customize: func(s *mock.Session) {
				s.TitleFn = func(ctx context.Context) (string, error) { return "", boom }
			},
			extractor: stubExtractor(nil, boom),
			failed:    true,
		},
		{
			name: "extractor panic",
			extractor: &mock.Extractor{
				ExtractFn: func(html, pageURL string) (*newsread.ExtractResult, error) {
					panic("stack overflow in DOM builder")
				},
			},
			failed: true,
		},
		{
			name: "session panic",
			customize: func(s *mock.Session) {
				s.HTMLFn = func(ctx context.Context) (string, error) { panic("target crashed") }
			},
			extractor: stubExtractor(nil, boom),
			failed:    true,
		},
		{
			name: "close error",
			customize: func(s *mock.Session) {
				prev := s.CloseFn
				s.CloseFn = func() error {
					_ = prev()
					return boom
				}
			},
			extractor: stubExtractor(&newsread.ExtractResult{Title: "T", ContentHTML: "<p>x</p>", TextContent: "x"}, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			browser := &fakeBrowser{}
			p := scrape.NewPipeline(
				browser.renderer("<html></html>", "fallback", tt.customize),
				tt.extractor,
				mock.NopSanitizer(),
			)

			var article *newsread.Article
			require.NotPanics(t, func() {
				article = p.Scrape(context.Background(), "https://news.example.com/a")
			})

			require.NotNil(t, article)
			assert.Equal(t, tt.failed, article.Failed())
			assert.Equal(t, 1, browser.opens, "sessions opened")
			assert.Equal(t, 1, browser.closes, "sessions closed")
		})
	}
}

func TestPipeline_Scrape_OpenFailure(t *testing.T) {
	t.Parallel()

	renderer := &mock.Renderer{
		OpenFn: func(ctx context.Context) (newsread.Session, error) {
			return nil, errors.New("launching browser: executable not found")
		},
	}
	p := scrape.NewPipeline(renderer, readability.NewExtractor(), goquery.NewSanitizer())

	article := p.Scrape(context.Background(), "https://news.example.com/a")

	assert.True(t, article.Failed())
	assert.Contains(t, article.Content, "executable not found")
}

func TestPipeline_Scrape_ConcurrentRequestsAreIsolated(t *testing.T) {
	t.Parallel()

	browser := &fakeBrowser{}
	p := scrape.NewPipeline(
		browser.renderer(articlePage, "", nil),
		readability.NewExtractor(),
		goquery.NewSanitizer(),
	)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			article := p.Scrape(context.Background(), "https://news.example.com/floods")
			assert.False(t, article.Failed())
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, browser.opens)
	assert.Equal(t, 8, browser.closes)
}
