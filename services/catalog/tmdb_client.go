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
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	tmdbPosterSize   = "w500"

	// TMDB reports totals in the millions for broad queries but rejects
	// page requests beyond 500, so the reported total is clamped there.
	tmdbMaxPages = 500
)

type tmdbClient struct {
	accessToken string
	language    string
	baseURL     string
	httpc       *http.Client
}

func newTMDBClient(accessToken, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		accessToken: strings.TrimSpace(accessToken),
		language:    strings.TrimSpace(language),
		baseURL:     tmdbBaseURL,
		httpc:       httpc,
	}
}

type tmdbListResponse struct {
	Page         int               `json:"page"`
	Results      []json.RawMessage `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

func tmdbSource(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeTV {
		return "tmdb-series"
	}
	return "tmdb-movies"
}

func tmdbPath(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeTV {
		return "tv"
	}
	return "movie"
}

// popular lists the source's popularity-ranked feed for one page.
func (c *tmdbClient) popular(ctx context.Context, mediaType models.MediaType, page int) (models.ResultPage, error) {
	return c.list(ctx, mediaType, tmdbPath(mediaType)+"/popular", url.Values{}, page)
}

// topRated lists the source's rating-ranked feed for one page.
func (c *tmdbClient) topRated(ctx context.Context, mediaType models.MediaType, page int) (models.ResultPage, error) {
	return c.list(ctx, mediaType, tmdbPath(mediaType)+"/top_rated", url.Values{}, page)
}

// search lists matches for query. An empty or whitespace query falls back to
// the popular feed, so callers can treat "no query" and "cleared query" the
// same way.
func (c *tmdbClient) search(ctx context.Context, mediaType models.MediaType, query string, page int) (models.ResultPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.popular(ctx, mediaType, page)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	return c.list(ctx, mediaType, "search/"+tmdbPath(mediaType), params, page)
}

func (c *tmdbClient) list(ctx context.Context, mediaType models.MediaType, endpoint string, params url.Values, page int) (models.ResultPage, error) {
	source := tmdbSource(mediaType)
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.ResultPage{}, &FetchError{Source: source, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.ResultPage{}, &FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.ResultPage{}, &FetchError{Source: source, StatusCode: resp.StatusCode}
	}

	var payload tmdbListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.ResultPage{}, &FetchError{Source: source, Err: err}
	}

	items := make([]models.MediaItem, 0, len(payload.Results))
	for _, raw := range payload.Results {
		items = append(items, normalizeTMDB(raw, mediaType))
	}

	totalPages := payload.TotalPages
	if totalPages > tmdbMaxPages {
		totalPages = tmdbMaxPages
	}
	if totalPages < 1 {
		totalPages = 1
	}

	return models.ResultPage{Items: items, Page: page, TotalPages: totalPages}, nil
}
