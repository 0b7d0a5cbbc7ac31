package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/repository/sqlite"
	"github.com/msomdec/ricettario/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	return service.NewAuthService(db.Users(), testJWTSecret, 4), db
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)

	user, err := auth.Register(context.Background(), "new@example.com", "New User", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected user ID to be set")
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", user.Email)
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password stored in clear text")
	}
}

func TestAuthService_Register_DefaultDisplayName(t *testing.T) {
	auth, _ := newTestAuthService(t)

	user, err := auth.Register(context.Background(), "chef.mario@example.com", "", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.DisplayName != "chef.mario" {
		t.Fatalf("expected display name chef.mario, got %q", user.DisplayName)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "dup@example.com", "User 1", "password123"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := auth.Register(ctx, "dup@example.com", "User 2", "password456")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.Register(context.Background(), "weak@example.com", "Weak", "short")
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"empty password", "a@b.com", ""},
		{"malformed email", "not-an-email", "password123"},
		{"display name form", "Bob <bob@example.com>", "password123"},
		{"angle address", "<bob@example.com>", "password123"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.email, "Name", tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_SignUp_IssuesSession(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := auth.SignUp(ctx, "new@example.com", "New", "password123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	sess := auth.Resolve(ctx, token)
	if !sess.Authenticated() || sess.User.ID != user.ID {
		t.Fatalf("token resolved to %+v, want user %s", sess.User, user.ID)
	}
}

func TestAuthService_SignUp_FailureIssuesNothing(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, token, err := auth.SignUp(context.Background(), "weak@example.com", "Weak", "123")
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if token != "" {
		t.Fatal("no token should be issued on failure")
	}
}

func TestAuthService_Login(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "login@example.com", "Login User", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("expected user ID %s, got %s", user.ID, userID)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "wrongpw@example.com", "User", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(ctx, "wrongpw@example.com", "wrongpassword"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong password: expected ErrUnauthorized, got %v", err)
	}
	if _, err := auth.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown email: expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.ValidateToken("not-a-valid-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("garbage: expected ErrUnauthorized, got %v", err)
	}

	user, err := auth.Register(ctx, "tamper@example.com", "Tamper", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tampered := token[:len(token)-5] + "XXXXX"
	if _, err := auth.ValidateToken(tampered); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("tampered: expected ErrUnauthorized, got %v", err)
	}

	other := service.NewAuthService(nil, "a-completely-different-secret-value!!", 4)
	if _, err := other.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong secret: expected ErrUnauthorized, got %v", err)
	}
}

// flakyUsers fails every lookup with a backend error.
type flakyUsers struct{ domain.UserRepository }

func (flakyUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, errors.New("backend unavailable")
}

func TestAuthService_Resolve(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	if sess := auth.Resolve(ctx, ""); sess.Authenticated() || sess.Loading {
		t.Fatalf("empty token: expected anonymous session, got %+v", sess)
	}
	if sess := auth.Resolve(ctx, "garbage"); sess.Authenticated() || sess.Loading {
		t.Fatalf("bad token: expected anonymous session, got %+v", sess)
	}

	user, err := auth.Register(ctx, "resolve@example.com", "Resolver", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	sess := auth.Resolve(ctx, token)
	if !sess.Authenticated() || sess.User.ID != user.ID {
		t.Fatalf("expected session for %s, got %+v", user.ID, sess)
	}

	flaky := service.NewAuthService(flakyUsers{db.Users()}, testJWTSecret, 4)
	sess = flaky.Resolve(ctx, token)
	if sess.Authenticated() || !sess.Loading {
		t.Fatalf("backend failure: expected loading session, got %+v", sess)
	}
}
