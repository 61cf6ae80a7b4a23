package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/sourcegraph/conc"

	"mediashelf/models"
)

// sectionSize is the number of items shown per source on mixed views. Flat
// single-source pages keep the source's full page instead.
const sectionSize = 12

// Service aggregates the three catalog sources. It is stateless: every call
// fans out to the sources it needs and assembles a fresh result. Per-source
// failures stay inside their own section and never abort the other sources.
type Service struct {
	tmdb  *tmdbClient
	books *booksClient
}

// NewService builds a catalog service. tmdbToken is a TMDB v4 read access
// token; booksAPIKey is optional, the volumes API answers without one at a
// lower quota. httpc may be nil for a default client.
func NewService(tmdbToken, booksAPIKey, language string, httpc *http.Client) *Service {
	return &Service{
		tmdb:  newTMDBClient(tmdbToken, language, httpc),
		books: newBooksClient(booksAPIKey, httpc),
	}
}

// Home assembles the landing view: top-rated movies, top-rated series and
// popular books, one section each.
func (s *Service) Home(ctx context.Context) models.CatalogSections {
	var (
		wg     conc.WaitGroup
		movies models.ResultPage
		tv     models.ResultPage
		books  models.ResultPage
		mErr   error
		tErr   error
		bErr   error
	)
	wg.Go(func() { movies, mErr = s.tmdb.topRated(ctx, models.MediaTypeMovie, 1) })
	wg.Go(func() { tv, tErr = s.tmdb.topRated(ctx, models.MediaTypeTV, 1) })
	wg.Go(func() { books, bErr = s.books.popular(ctx, 1) })
	wg.Wait()

	return models.CatalogSections{
		Page:   1,
		Movies: buildSection(movies, mErr),
		TV:     buildSection(tv, tErr),
		Books:  buildSection(books, bErr),
	}
}

// SearchAll runs one query against all three sources in parallel. An empty
// or whitespace query lists each source's popular feed instead. Results stay
// bucketed per source; a failed source carries its error in its own section
// while the others return normally.
func (s *Service) SearchAll(ctx context.Context, query string, page int) models.CatalogSections {
	query = strings.TrimSpace(query)
	if page < 1 {
		page = 1
	}

	var (
		wg     conc.WaitGroup
		movies models.ResultPage
		tv     models.ResultPage
		books  models.ResultPage
		mErr   error
		tErr   error
		bErr   error
	)
	wg.Go(func() { movies, mErr = s.tmdb.search(ctx, models.MediaTypeMovie, query, page) })
	wg.Go(func() { tv, tErr = s.tmdb.search(ctx, models.MediaTypeTV, query, page) })
	wg.Go(func() { books, bErr = s.books.search(ctx, query, page) })
	wg.Wait()

	return models.CatalogSections{
		Query:  query,
		Page:   page,
		Movies: buildSection(movies, mErr),
		TV:     buildSection(tv, tErr),
		Books:  buildSection(books, bErr),
	}
}

// Category fetches one flat page from a single source. An empty query lists
// the source's popular feed.
func (s *Service) Category(ctx context.Context, mediaType models.MediaType, query string, page int) (models.ResultPage, error) {
	query = strings.TrimSpace(query)
	if page < 1 {
		page = 1
	}

	switch mediaType {
	case models.MediaTypeMovie, models.MediaTypeTV:
		return s.tmdb.search(ctx, mediaType, query, page)
	case models.MediaTypeBook:
		return s.books.search(ctx, query, page)
	}
	return models.ResultPage{}, fmt.Errorf("unknown media type %q", mediaType)
}

// buildSection trims one source's page to the mixed-view section size. A
// source failure becomes the section's error; the items stay empty.
func buildSection(page models.ResultPage, err error) models.SectionResult {
	if err != nil {
		log.Printf("[catalog] source failed: %v", err)
		return models.SectionResult{Items: []models.MediaItem{}, Error: err.Error()}
	}
	items := page.Items
	if len(items) > sectionSize {
		items = items[:sectionSize]
	}
	if items == nil {
		items = []models.MediaItem{}
	}
	return models.SectionResult{Items: items, TotalPages: page.TotalPages}
}
