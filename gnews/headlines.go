// Package gnews implements newsread.HeadlineService on the GNews API.
package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/newsread"
)

// DefaultBaseURL is the GNews top-headlines endpoint.
const DefaultBaseURL = "https://gnews.io/api/v4/top-headlines"

// DefaultTimeout is the default timeout for GNews requests.
const DefaultTimeout = 10 * time.Second

// Ensure HeadlineService implements newsread.HeadlineService at compile time.
var _ newsread.HeadlineService = (*HeadlineService)(nil)

// HeadlineService fetches top headlines from GNews.
type HeadlineService struct {
	apiKey  string
	baseURL string
	lang    string
	country string
	max     int
	client  *http.Client
}

// Option configures a HeadlineService.
type Option func(*HeadlineService)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(s *HeadlineService) {
		s.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HeadlineService) {
		s.client = c
	}
}

// WithEdition selects the language and country of the headlines.
// Defaults to "en" and "in".
func WithEdition(lang, country string) Option {
	return func(s *HeadlineService) {
		s.lang = lang
		s.country = country
	}
}

// WithMax sets the number of headlines requested. Defaults to 10.
func WithMax(n int) Option {
	return func(s *HeadlineService) {
		s.max = n
	}
}

// NewHeadlineService creates a new HeadlineService authenticated with apiKey.
func NewHeadlineService(apiKey string, opts ...Option) *HeadlineService {
	s := &HeadlineService{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		lang:    "en",
		country: "in",
		max:     10,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type response struct {
	Articles []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		Image       string    `json:"image"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// TopHeadlines returns the current top headlines numbered from 1.
func (s *HeadlineService) TopHeadlines(ctx context.Context) ([]*newsread.Headline, error) {
	if s.apiKey == "" {
		return nil, newsread.Errorf(newsread.EINVALID, "GNews API key required")
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	q := u.Query()
	q.Set("lang", s.lang)
	q.Set("country", s.country)
	q.Set("max", strconv.Itoa(s.max))
	q.Set("apikey", s.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, newsread.Errorf(newsread.EUNAVAILABLE, "requesting headlines: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// GNews reports the reason in the body.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, newsread.Errorf(newsread.EUNAVAILABLE, "GNews HTTP %d: %s", resp.StatusCode, body)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding headlines: %w", err)
	}

	headlines := make([]*newsread.Headline, 0, len(r.Articles))
	for i, a := range r.Articles {
		headlines = append(headlines, &newsread.Headline{
			ID:          i + 1,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Image:       a.Image,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}
	return headlines, nil
}
