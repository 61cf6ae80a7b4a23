package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mediashelf/models"
	"mediashelf/services/favorites"
)

type favoritesService interface {
	Add(ctx context.Context, userID string, input models.FavoriteInput) (models.Favorite, error)
	ListForUser(ctx context.Context, userID string) ([]models.Favorite, error)
	Remove(ctx context.Context, id int64, userID string) error
}

var _ favoritesService = (*favorites.Service)(nil)

type FavoritesHandler struct {
	Service favoritesService
}

func NewFavoritesHandler(service favoritesService) *FavoritesHandler {
	return &FavoritesHandler{Service: service}
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input models.FavoriteInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fav, err := h.Service.Add(r.Context(), UserIDFrom(r.Context()), input)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, favorites.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, favorites.ErrMediaIDRequired),
			errors.Is(err, favorites.ErrTitleRequired),
			errors.Is(err, favorites.ErrInvalidMediaType):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(fav)
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListForUser(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["favoriteID"], 10, 64)
	if err != nil {
		http.Error(w, "invalid favorite id", http.StatusBadRequest)
		return
	}

	if err := h.Service.Remove(r.Context(), id, UserIDFrom(r.Context())); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, favorites.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
