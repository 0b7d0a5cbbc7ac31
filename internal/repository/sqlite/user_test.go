package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/repository/sqlite"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		Email:        "test@example.com",
		DisplayName:  "Test User",
		PasswordHash: "hashedpw",
	}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Email: "dup@example.com", DisplayName: "One", PasswordHash: "h"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	err := repo.Create(ctx, &domain.User{Email: "DUP@example.com", DisplayName: "Two", PasswordHash: "h"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetByIDAndEmail(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := &domain.User{Email: "find@example.com", DisplayName: "Finder", PasswordHash: "h"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != "find@example.com" || byID.DisplayName != "Finder" {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byEmail, err := repo.GetByEmail(ctx, "find@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected ID %s, got %s", user.ID, byEmail.ID)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByEmail: expected ErrNotFound, got %v", err)
	}
}
