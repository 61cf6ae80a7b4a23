package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mediashelf/models"
)

// backend is the slice of Service the session drives. Kept narrow so tests
// can substitute controllable sources.
type backend interface {
	SearchAll(ctx context.Context, query string, page int) models.CatalogSections
	Category(ctx context.Context, mediaType models.MediaType, query string, page int) (models.ResultPage, error)
}

var _ backend = (*Service)(nil)

// Session holds one catalog view and serializes its transitions. Each
// mutation supersedes any fetch still in flight: the older fetch's context
// is canceled and its result, if it arrives anyway, is discarded instead of
// overwriting the newer view. Stale responses therefore never clobber the
// state a later interaction produced.
type Session struct {
	backend backend

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	view       models.CatalogView
}

// NewSession builds an idle session over b. Nothing is fetched until the
// first mutation.
func NewSession(b backend) *Session {
	return &Session{
		backend: b,
		view: models.CatalogView{
			Status: models.SessionIdle,
			Filter: models.FilterAll,
			Page:   1,
		},
	}
}

// Snapshot returns the current view.
func (s *Session) Snapshot() models.CatalogView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SubmitQuery starts a new search and returns the resulting view. The page
// resets to 1. A query of only whitespace is treated as empty and behaves
// like ClearQuery.
func (s *Session) SubmitQuery(ctx context.Context, query string) models.CatalogView {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ClearQuery(ctx)
	}
	s.mu.Lock()
	filter := s.view.Filter
	s.mu.Unlock()
	return s.load(ctx, query, filter, 1)
}

// SetPage moves the current view to page, keeping query and filter.
func (s *Session) SetPage(ctx context.Context, page int) models.CatalogView {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	query, filter := s.view.Query, s.view.Filter
	s.mu.Unlock()
	return s.load(ctx, query, filter, page)
}

// SetFilter narrows the view to one source, or back to all of them. The page
// resets to 1; the query is kept.
func (s *Session) SetFilter(ctx context.Context, filter models.CatalogFilter) (models.CatalogView, error) {
	if !models.ValidCatalogFilter(filter) {
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}
	s.mu.Lock()
	query := s.view.Query
	s.mu.Unlock()
	return s.load(ctx, query, filter, 1), nil
}

// ClearQuery drops the active search and restores the default popular view
// across all sources.
func (s *Session) ClearQuery(ctx context.Context) models.CatalogView {
	return s.load(ctx, "", models.FilterAll, 1)
}

// Refresh re-runs the current query, filter and page.
func (s *Session) Refresh(ctx context.Context) models.CatalogView {
	s.mu.Lock()
	query, filter, page := s.view.Query, s.view.Filter, s.view.Page
	s.mu.Unlock()
	return s.load(ctx, query, filter, page)
}

// load performs one fetch cycle: claim a generation, fetch, commit if still
// current. The fetch runs on the caller's goroutine; concurrency between
// interactions comes from concurrent callers, and the generation check keeps
// their commits in interaction order.
func (s *Session) load(ctx context.Context, query string, filter models.CatalogFilter, page int) models.CatalogView {
	gen, fetchCtx, cancel := s.begin(ctx, query, filter, page)
	defer cancel()

	view := models.CatalogView{
		Query:  query,
		Filter: filter,
		Page:   page,
	}

	if filter == models.FilterAll {
		sections := s.backend.SearchAll(fetchCtx, query, page)
		view.Sections = &sections
		if sections.Failed() {
			view.Status = models.SessionErrored
			view.Error = firstSectionError(sections)
		}
	} else {
		results, err := s.backend.Category(fetchCtx, models.MediaType(filter), query, page)
		if err != nil {
			view.Status = models.SessionErrored
			view.Error = err.Error()
		} else {
			view.Results = &results
		}
	}

	if view.Status == "" {
		if query == "" && filter == models.FilterAll {
			view.Status = models.SessionIdle
		} else {
			view.Status = models.SessionLoaded
		}
	}

	s.commit(gen, view)
	return s.Snapshot()
}

// begin supersedes any in-flight fetch: cancels its context, bumps the
// generation and flips the view to loading for the pending parameters.
func (s *Session) begin(ctx context.Context, query string, filter models.CatalogFilter, page int) (uint64, context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.view.Status = models.SessionLoading
	s.view.Query = query
	s.view.Filter = filter
	s.view.Page = page
	s.view.Error = ""

	return s.generation, fetchCtx, cancel
}

// commit installs view unless a newer generation has been claimed since the
// fetch began, in which case the result is stale and dropped.
func (s *Session) commit(gen uint64, view models.CatalogView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.view = view
	return true
}

func firstSectionError(sections models.CatalogSections) string {
	for _, sec := range []models.SectionResult{sections.Movies, sections.TV, sections.Books} {
		if sec.Error != "" {
			return sec.Error
		}
	}
	return ""
}
