package users

import (
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register("Ana", "ana@example.com", "segredo1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Error("user ID missing")
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Email = %q", user.Email)
	}

	got, err := svc.Authenticate("ana@example.com", "segredo1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated ID = %q, want %q", got.ID, user.ID)
	}

	if _, err := svc.Authenticate("ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "segredo1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v", err)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("Ana", "  Ana@Example.COM ", "segredo1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Authenticate("ana@example.com", "segredo1"); err != nil {
		t.Errorf("Authenticate with normalized email: %v", err)
	}
	if _, err := svc.Register("Other", "ana@example.com", "segredo1"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name     string
		userName string
		email    string
		password string
		want     error
	}{
		{"blank name", "  ", "a@example.com", "segredo1", ErrNameRequired},
		{"missing at", "Ana", "example.com", "segredo1", ErrEmailInvalid},
		{"missing local part", "Ana", "@example.com", "segredo1", ErrEmailInvalid},
		{"bare domain", "Ana", "ana@example", "segredo1", ErrEmailInvalid},
		{"short password", "Ana", "ana@example.com", "12345", ErrPasswordTooShort},
	}
	for _, tc := range cases {
		if _, err := svc.Register(tc.userName, tc.email, tc.password); !errors.Is(err, tc.want) {
			t.Errorf("%s: Register error = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestAccountsSurviveReload(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	user, err := svc.Register("Ana", "ana@example.com", "segredo1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	reloaded, err := NewService(dir)
	if err != nil {
		t.Fatalf("NewService (reload): %v", err)
	}
	if _, ok := reloaded.Get(user.ID); !ok {
		t.Fatal("user missing after reload")
	}
	// The hash must survive persistence, not just the profile.
	if _, err := reloaded.Authenticate("ana@example.com", "segredo1"); err != nil {
		t.Errorf("Authenticate after reload: %v", err)
	}
}

func TestListSortedByCreation(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register("Bea", "bea@example.com", "segredo1"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Register("Ana", "ana@example.com", "segredo1"); err != nil {
		t.Fatal(err)
	}

	users := svc.List()
	if len(users) != 2 {
		t.Fatalf("List = %d users", len(users))
	}
	if users[0].Name != "Bea" {
		t.Errorf("List[0] = %q, want earliest first", users[0].Name)
	}
}
