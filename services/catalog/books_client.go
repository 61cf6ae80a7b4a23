package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mediashelf/models"
)

const (
	booksBaseURL = "https://www.googleapis.com/books/v1/volumes"
	booksSource  = "google-books"

	// booksPopularQuery stands in for a popularity feed: the volumes API is
	// search-only, so browsing falls back to a broad fixed query.
	booksPopularQuery = "best books"

	booksPageSize = 20
)

type booksClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func newBooksClient(apiKey string, httpc *http.Client) *booksClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &booksClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: booksBaseURL,
		httpc:   httpc,
	}
}

type booksListResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

func (c *booksClient) popular(ctx context.Context, page int) (models.ResultPage, error) {
	return c.list(ctx, booksPopularQuery, page)
}

func (c *booksClient) search(ctx context.Context, query string, page int) (models.ResultPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = booksPopularQuery
	}
	return c.list(ctx, query, page)
}

// list fetches one page of volumes. The API pages by item offset rather than
// page number, and reports a total item count instead of a page count, so
// both are translated here: startIndex = (page-1)*pageSize and totalPages is
// the ceiling of totalItems over the page size.
func (c *booksClient) list(ctx context.Context, query string, page int) (models.ResultPage, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("startIndex", strconv.Itoa((page-1)*booksPageSize))
	params.Set("maxResults", strconv.Itoa(booksPageSize))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.ResultPage{}, &FetchError{Source: booksSource, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.ResultPage{}, &FetchError{Source: booksSource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.ResultPage{}, &FetchError{Source: booksSource, StatusCode: resp.StatusCode}
	}

	var payload booksListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.ResultPage{}, &FetchError{Source: booksSource, Err: err}
	}

	items := make([]models.MediaItem, 0, len(payload.Items))
	for _, raw := range payload.Items {
		items = append(items, normalizeBook(raw))
	}

	totalPages := (payload.TotalItems + booksPageSize - 1) / booksPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return models.ResultPage{Items: items, Page: page, TotalPages: totalPages}, nil
}
