// Package similar provides the read-only "similar books" enrichment
// lookup against an external book-search service. Lookups are
// best-effort: every failure collapses into ErrFetchFailed and is never
// retried.
package similar

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

// DefaultBaseURL is the public endpoint of the book-search service.
const DefaultBaseURL = "https://api.itbook.store/1.0"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrFetchFailed covers network errors, non-2xx responses and malformed
// bodies alike; the caller surfaces them as a single "could not load
// similar books" state.
var ErrFetchFailed = errors.New("could not load similar books")

// Client performs search requests against the book-search service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a search client. baseURL may be empty, in which case
// DefaultBaseURL is used.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Search queries the service and returns the result list. A book that
// yields no results returns an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]models.SimilarBook, error) {
	endpoint := c.baseURL + "/search/" + url.PathEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("Failed to build search request", zap.Error(err))
		return nil, ErrFetchFailed
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Preserve cancellation so superseded requests can be told
		// apart from real failures.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("Similar books request failed", zap.String("query", query), zap.Error(err))
		return nil, ErrFetchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Similar books request returned non-2xx",
			zap.String("query", query), zap.Int("status", resp.StatusCode))
		return nil, ErrFetchFailed
	}

	var body struct {
		Books []models.SimilarBook `json:"books"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("Malformed similar books response", zap.String("query", query), zap.Error(err))
		return nil, ErrFetchFailed
	}

	if body.Books == nil {
		return []models.SimilarBook{}, nil
	}
	return body.Books, nil
}

// QueryFor derives the search query for a book: the first three words of
// the title, falling back to author, then publisher, then a fixed
// default so the lookup always has something to search for.
func QueryFor(book models.Book) string {
	if title := strings.TrimSpace(book.Title); title != "" {
		words := strings.Fields(title)
		if len(words) > 3 {
			words = words[:3]
		}
		return strings.Join(words, " ")
	}
	if author := strings.TrimSpace(book.Author); author != "" {
		return author
	}
	if publisher := strings.TrimSpace(book.Publisher); publisher != "" {
		return publisher
	}
	return "javascript"
}
