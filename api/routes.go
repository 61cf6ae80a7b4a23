package api

import (
	"net/http"

	"mediashelf/handlers"
	"mediashelf/services/users"

	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	reviewsHandler *handlers.ReviewsHandler,
	favoritesHandler *handlers.FavoritesHandler,
	eventsHandler *handlers.EventsHandler,
	tokens users.TokenService,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Auth routes (no authentication required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handleOptions).Methods(http.MethodOptions)

	// Catalog browsing is public; it reads upstream sources only.
	api.HandleFunc("/catalog/home", catalogHandler.Home).Methods(http.MethodGet)
	api.HandleFunc("/catalog/home", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/search", catalogHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/catalog/search", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/view", catalogHandler.View).Methods(http.MethodGet)
	api.HandleFunc("/catalog/view", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/view/query", catalogHandler.SubmitQuery).Methods(http.MethodPut)
	api.HandleFunc("/catalog/view/query", catalogHandler.ClearViewQuery).Methods(http.MethodDelete)
	api.HandleFunc("/catalog/view/query", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/view/page", catalogHandler.SetViewPage).Methods(http.MethodPut)
	api.HandleFunc("/catalog/view/page", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/view/filter", catalogHandler.SetViewFilter).Methods(http.MethodPut)
	api.HandleFunc("/catalog/view/filter", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/view/refresh", catalogHandler.RefreshView).Methods(http.MethodPost)
	api.HandleFunc("/catalog/view/refresh", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/{mediaType}", catalogHandler.Category).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{mediaType}", handleOptions).Methods(http.MethodOptions)

	// Community rankings are public
	api.HandleFunc("/rankings", reviewsHandler.Ranking).Methods(http.MethodGet)
	api.HandleFunc("/rankings", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/reviews/media/{mediaType}/{mediaID}", reviewsHandler.FindForMedia).Methods(http.MethodGet)
	api.HandleFunc("/reviews/media/{mediaType}/{mediaID}", handleOptions).Methods(http.MethodOptions)

	// Protected routes - require a valid bearer token
	protected := api.PathPrefix("").Subrouter()
	protected.Use(handlers.RequireUser(tokens))

	protected.HandleFunc("/users/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/users/me/recommendations", reviewsHandler.Recommendations).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/recommendations", handleOptions).Methods(http.MethodOptions)

	protected.HandleFunc("/reviews", reviewsHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/reviews", reviewsHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/reviews", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/reviews/{reviewID}", reviewsHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/reviews/{reviewID}", handleOptions).Methods(http.MethodOptions)

	protected.HandleFunc("/favorites", favoritesHandler.Add).Methods(http.MethodPost)
	protected.HandleFunc("/favorites", favoritesHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/favorites", handleOptions).Methods(http.MethodOptions)
	protected.HandleFunc("/favorites/{favoriteID}", favoritesHandler.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/favorites/{favoriteID}", handleOptions).Methods(http.MethodOptions)

	// Server-sent review events for the authenticated user
	protected.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)
	protected.HandleFunc("/events", handleOptions).Methods(http.MethodOptions)
}
