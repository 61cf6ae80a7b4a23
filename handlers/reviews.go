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
	"mediashelf/services/reviews"
)

type reviewsService interface {
	Create(ctx context.Context, userID string, input models.ReviewInput) (models.Review, error)
	FindForMedia(ctx context.Context, userID, mediaID string, mediaType models.MediaType) (models.Review, error)
	ListForUser(ctx context.Context, userID string, mediaType models.MediaType) ([]models.Review, error)
	Delete(ctx context.Context, id int64, userID string) error
	Ranking(ctx context.Context, mediaType models.MediaType, limit int) ([]models.RankingEntry, error)
	Recommendations(ctx context.Context, userID string, limit int) ([]models.Review, error)
}

var _ reviewsService = (*reviews.Service)(nil)

type ReviewsHandler struct {
	Service reviewsService
}

func NewReviewsHandler(service reviewsService) *ReviewsHandler {
	return &ReviewsHandler{Service: service}
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.ReviewInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	review, err := h.Service.Create(r.Context(), UserIDFrom(r.Context()), input)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, reviews.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, reviews.ErrScoreOutOfRange),
			errors.Is(err, reviews.ErrTextTooLong),
			errors.Is(err, reviews.ErrMediaIDRequired),
			errors.Is(err, reviews.ErrTitleRequired),
			errors.Is(err, reviews.ErrInvalidMediaType):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

// List returns the caller's reviews, optionally narrowed with ?type=.
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	mediaType := models.MediaType(strings.TrimSpace(r.URL.Query().Get("type")))

	list, err := h.Service.ListForUser(r.Context(), UserIDFrom(r.Context()), mediaType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reviews.ErrInvalidMediaType) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// FindForMedia returns the caller's review of one media item, so clients
// can decide between offering create and delete.
func (h *ReviewsHandler) FindForMedia(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mediaType := models.MediaType(strings.TrimSpace(vars["mediaType"]))
	mediaID := strings.TrimSpace(vars["mediaID"])
	if !models.ValidMediaType(mediaType) || mediaID == "" {
		http.Error(w, "media type and id are required", http.StatusBadRequest)
		return
	}

	review, err := h.Service.FindForMedia(r.Context(), UserIDFrom(r.Context()), mediaID, mediaType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reviews.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(review)
}

func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["reviewID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid review id", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), id, UserIDFrom(r.Context())); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reviews.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Ranking serves the community ranking, optionally narrowed with ?type=.
func (h *ReviewsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	mediaType := models.MediaType(strings.TrimSpace(r.URL.Query().Get("type")))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.Service.Ranking(r.Context(), mediaType, limit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reviews.ErrInvalidMediaType) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Recommendations returns the caller's highest-rated media.
func (h *ReviewsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := h.Service.Recommendations(r.Context(), UserIDFrom(r.Context()), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}
