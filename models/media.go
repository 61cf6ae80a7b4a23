package models

import "encoding/json"

// MediaType identifies which catalog source an item came from.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeBook  MediaType = "book"
)

// ValidMediaType reports whether t is one of the known media types.
func ValidMediaType(t MediaType) bool {
	switch t {
	case MediaTypeMovie, MediaTypeTV, MediaTypeBook:
		return true
	}
	return false
}

// MediaItem is the normalized view of a single catalog entry. Every source
// (TMDB movies, TMDB series, Google Books volumes) is flattened into this
// shape before it leaves the catalog service.
type MediaItem struct {
	ID        string          `json:"id"`
	MediaType MediaType       `json:"mediaType"`
	Title     string          `json:"title"`
	Year      int             `json:"year,omitempty"`
	Rating    float64         `json:"rating"`
	PosterURL string          `json:"posterUrl"`
	Overview  string          `json:"overview,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// ResultPage is one page of normalized items from a single source.
type ResultPage struct {
	Items      []MediaItem `json:"items"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

// SectionResult is one source's contribution to a mixed view. Error carries
// the source failure message when that source rejected; the other sections
// are unaffected.
type SectionResult struct {
	Items      []MediaItem `json:"items"`
	TotalPages int         `json:"totalPages"`
	Error      string      `json:"error,omitempty"`
}

// CatalogSections groups results per source. Items never interleave across
// sections: movies, series and books each keep their own bucket.
type CatalogSections struct {
	Query  string        `json:"query,omitempty"`
	Page   int           `json:"page"`
	Movies SectionResult `json:"movies"`
	TV     SectionResult `json:"tv"`
	Books  SectionResult `json:"books"`
}

// Failed reports whether any section carries a source error.
func (s CatalogSections) Failed() bool {
	return s.Movies.Error != "" || s.TV.Error != "" || s.Books.Error != ""
}

// CatalogFilter narrows a view to one source, or keeps all of them.
type CatalogFilter string

const (
	FilterAll    CatalogFilter = "all"
	FilterMovies CatalogFilter = "movie"
	FilterTV     CatalogFilter = "tv"
	FilterBooks  CatalogFilter = "book"
)

// ValidCatalogFilter reports whether f is a known filter value.
func ValidCatalogFilter(f CatalogFilter) bool {
	switch f {
	case FilterAll, FilterMovies, FilterTV, FilterBooks:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of a catalog view session.
type SessionStatus string

const (
	SessionIdle    SessionStatus = "idle"
	SessionLoading SessionStatus = "loading"
	SessionLoaded  SessionStatus = "loaded"
	SessionErrored SessionStatus = "errored"
)

// CatalogView is a snapshot of what a session is currently showing. Sections
// is set for mixed ("all") views, Results for single-source views.
type CatalogView struct {
	Status   SessionStatus    `json:"status"`
	Query    string           `json:"query"`
	Filter   CatalogFilter    `json:"filter"`
	Page     int              `json:"page"`
	Sections *CatalogSections `json:"sections,omitempty"`
	Results  *ResultPage      `json:"results,omitempty"`
	Error    string           `json:"error,omitempty"`
}
