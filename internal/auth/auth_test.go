package auth

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nimeshab/focusday/internal/config"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/storage/sqlite"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-access-secret"
	cfg.Auth.JWTRefreshSecret = "test-refresh-secret"
	return cfg
}

func testService(t *testing.T) *Service {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return NewService(store, testConfig())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := testService(t)

	user, pair, err := svc.Register("alice@example.com", "correct-horse", "Alice", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a generated user ID")
	}
	if user.Timezone != "UTC" {
		t.Errorf("expected default timezone UTC, got %q", user.Timezone)
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}

	got, _, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.Register("Bob@Example.COM", "longenough", "Bob", "UTC"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login("bob@example.com", "longenough"); err != nil {
		t.Errorf("expected case-insensitive email match, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.Register("alice@example.com", "correct-horse", "Alice", "UTC"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login("alice@example.com", "wrong-horse")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = svc.Login("nobody@example.com", "correct-horse")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.Register("alice@example.com", "correct-horse", "Alice", "UTC"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Register("alice@example.com", "another-pass", "Alice Again", "UTC")
	if !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.Register("alice@example.com", "short", "Alice", "UTC"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestRegisterRejectsBadTimezone(t *testing.T) {
	svc := testService(t)

	if _, _, err := svc.Register("alice@example.com", "correct-horse", "Alice", "Mars/Olympus"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestRefresh(t *testing.T) {
	svc := testService(t)

	user, pair, err := svc.Register("alice@example.com", "correct-horse", "Alice", "UTC")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	newPair, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	userID, err := svc.VerifyAccess(newPair.AccessToken)
	if err != nil {
		t.Fatalf("refreshed access token did not verify: %v", err)
	}
	if userID != user.ID {
		t.Errorf("expected subject %s, got %s", user.ID, userID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := testService(t)

	_, pair, err := svc.Register("alice@example.com", "correct-horse", "Alice", "UTC")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Refresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken when refreshing with an access token, got %v", err)
	}
}

func TestVerifyAccessRejectsGarbage(t *testing.T) {
	ti := NewTokenIssuer(testConfig())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ti.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestVerifyAccessRejectsWrongSecret(t *testing.T) {
	ti := NewTokenIssuer(testConfig())

	other := testConfig()
	other.Auth.JWTSecret = "a-different-secret"
	pair, err := NewTokenIssuer(other).Issue("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := ti.VerifyAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}
