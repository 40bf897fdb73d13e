package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsread"
)

// Error messages returned in {"error": ...} bodies.
const (
	msgNewsFailed      = "Failed to fetch news."
	msgMissingURL      = "Missing URL parameter"
	msgTextRequired    = "Article text is required."
	msgSummarizeFailed = "Internal server error during summarization."
	msgInvalidBody     = "Invalid request body."
	msgInternal        = "Internal server error."
)

type summarizeRequest struct {
	ArticleText string `json:"articleText"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	headlines, err := s.headlines.TopHeadlines(r.Context())
	if err != nil {
		s.logger.Error("fetching headlines", "request_id", RequestID(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, msgNewsFailed)
		return
	}
	writeJSON(w, http.StatusOK, headlines)
}

// handleScrape always answers 200 with an article; scrape failures are
// reported in the article itself.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, msgMissingURL)
		return
	}

	article := s.scraper.Scrape(r.Context(), url)

	body, err := json.Marshal(article)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.ArticleText == "" {
		writeError(w, http.StatusBadRequest, msgTextRequired)
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), req.ArticleText)
	if newsread.ErrorCode(err) == newsread.EINVALID {
		writeError(w, http.StatusBadRequest, msgTextRequired)
		return
	} else if err != nil {
		s.logger.Error("summarizing", "request_id", RequestID(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, msgSummarizeFailed)
		return
	}

	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
