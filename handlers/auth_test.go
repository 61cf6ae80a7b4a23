package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediashelf/models"
	"mediashelf/services/users"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	svc, err := users.NewService(t.TempDir())
	if err != nil {
		t.Fatalf("users.NewService: %v", err)
	}
	tokens := users.NewTokenService("test-secret", "mediashelf", time.Hour)
	return NewAuthHandler(svc, tokens)
}

func TestRegisterLoginFlow(t *testing.T) {
	h := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"segredo1","confirmPassword":"segredo1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var registered authResponse
	if err := json.NewDecoder(rec.Body).Decode(&registered); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if registered.Token == "" || registered.User.ID == "" {
		t.Fatalf("response = %+v", registered)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"segredo1"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var logged authResponse
	if err := json.NewDecoder(rec.Body).Decode(&logged); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if logged.User.ID != registered.User.ID {
		t.Errorf("login user = %q, want %q", logged.User.ID, registered.User.ID)
	}

	claims, err := h.Tokens.Parse(logged.Token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.Subject != registered.User.ID {
		t.Errorf("token subject = %q", claims.Subject)
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"segredo1","confirmPassword":"outra"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHandler(t)
	body := `{"name":"Ana","email":"ana@example.com","password":"segredo1"}`

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthHandler(t)

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"segredo1"}`)))

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"errada"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireUserMiddleware(t *testing.T) {
	tokens := users.NewTokenService("test-secret", "mediashelf", time.Hour)

	var sawUserID string
	protected := RequireUser(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUserID = UserIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No token at all.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reviews", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}

	// Garbage token.
	req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}

	// Valid token.
	raw, err := tokens.Sign(models.User{ID: "user-1", Name: "Ana"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d", rec.Code)
	}
	if sawUserID != "user-1" {
		t.Errorf("handler saw user %q", sawUserID)
	}
}
