package domain

import (
	"context"
	"time"
)

// User represents a registered identity. ID is opaque and assigned by the
// identity backend.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Session is the authentication context handed to every view. User is nil for
// anonymous requests. Loading is set when a credential was presented but the
// identity could not be resolved because the backend failed, so callers can
// tell "not signed in" apart from "unknown yet".
type Session struct {
	User    *User
	Loading bool
}

// Authenticated reports whether the session carries a resolved identity.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// Owns reports whether the session identity is the given owner.
func (s Session) Owns(ownerID string) bool {
	return s.User != nil && ownerID != "" && s.User.ID == ownerID
}
