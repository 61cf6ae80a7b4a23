package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediashelf/models"
	"mediashelf/services/users"
)

type usersService interface {
	Register(name, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	Get(id string) (models.User, bool)
}

var _ usersService = (*users.Service)(nil)

type AuthHandler struct {
	Service usersService
	Tokens  users.TokenService
}

func NewAuthHandler(service usersService, tokens users.TokenService) *AuthHandler {
	return &AuthHandler{Service: service, Tokens: tokens}
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if body.ConfirmPassword != "" && body.ConfirmPassword != body.Password {
		http.Error(w, "passwords do not match", http.StatusBadRequest)
		return
	}

	user, err := h.Service.Register(body.Name, body.Email, body.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, users.ErrNameRequired),
			errors.Is(err, users.ErrEmailInvalid),
			errors.Is(err, users.ErrPasswordTooShort):
			status = http.StatusBadRequest
		case errors.Is(err, users.ErrEmailTaken):
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	token, err := h.Tokens.Sign(user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Service.Authenticate(body.Email, body.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, users.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	token, err := h.Tokens.Sign(user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse{Token: token, User: user})
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFrom(r.Context())
	user, ok := h.Service.Get(userID)
	if !ok {
		http.Error(w, users.ErrUserNotFound.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
