package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"mediashelf/models"
	"mediashelf/services/catalog"
	"mediashelf/utils/pagination"
)

type catalogService interface {
	Home(ctx context.Context) models.CatalogSections
	SearchAll(ctx context.Context, query string, page int) models.CatalogSections
	Category(ctx context.Context, mediaType models.MediaType, query string, page int) (models.ResultPage, error)
}

var _ catalogService = (*catalog.Service)(nil)

type catalogSession interface {
	Snapshot() models.CatalogView
	SubmitQuery(ctx context.Context, query string) models.CatalogView
	SetPage(ctx context.Context, page int) models.CatalogView
	SetFilter(ctx context.Context, filter models.CatalogFilter) (models.CatalogView, error)
	ClearQuery(ctx context.Context) models.CatalogView
	Refresh(ctx context.Context) models.CatalogView
}

var _ catalogSession = (*catalog.Session)(nil)

type CatalogHandler struct {
	Service catalogService
	Session catalogSession
}

func NewCatalogHandler(service catalogService, session catalogSession) *CatalogHandler {
	return &CatalogHandler{Service: service, Session: session}
}

// Home serves the landing sections: top-rated movies and series plus
// popular books.
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	sections := h.Service.Home(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sections)
}

// Search runs one query against all sources and returns per-source buckets.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page := parsePage(r.URL.Query().Get("page"))

	sections := h.Service.SearchAll(r.Context(), query, page)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sections)
}

type categoryResponse struct {
	models.ResultPage
	Pagination pagination.Window `json:"pagination"`
}

// Category serves one flat page from a single source, with the page window
// the client renders as numbered buttons.
func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mediaType := models.MediaType(strings.TrimSpace(vars["mediaType"]))
	if !models.ValidMediaType(mediaType) {
		http.Error(w, "unknown media type", http.StatusBadRequest)
		return
	}

	query := r.URL.Query().Get("q")
	page := parsePage(r.URL.Query().Get("page"))

	results, err := h.Service.Category(r.Context(), mediaType, query, page)
	if err != nil {
		status := http.StatusInternalServerError
		var fe *catalog.FetchError
		if errors.As(err, &fe) {
			status = http.StatusBadGateway
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categoryResponse{
		ResultPage: results,
		Pagination: pagination.Compute(results.Page, results.TotalPages),
	})
}

// View returns the session's current view without fetching anything.
func (h *CatalogHandler) View(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Session.Snapshot())
}

// SubmitQuery starts a new search on the session.
func (h *CatalogHandler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.Session.SubmitQuery(r.Context(), body.Query)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// SetViewPage moves the session to another page of the current view.
func (h *CatalogHandler) SetViewPage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Page int `json:"page"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Page < 1 {
		http.Error(w, "page must be at least 1", http.StatusBadRequest)
		return
	}

	view := h.Session.SetPage(r.Context(), body.Page)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// SetViewFilter narrows the session to one source or back to all.
func (h *CatalogHandler) SetViewFilter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filter string `json:"filter"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.Session.SetFilter(r.Context(), models.CatalogFilter(body.Filter))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// ClearViewQuery drops the active search and restores the default view.
func (h *CatalogHandler) ClearViewQuery(w http.ResponseWriter, r *http.Request) {
	view := h.Session.ClearQuery(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// RefreshView re-runs the session's current query and page.
func (h *CatalogHandler) RefreshView(w http.ResponseWriter, r *http.Request) {
	view := h.Session.Refresh(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
