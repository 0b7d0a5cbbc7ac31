package firebase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/msomdec/ricettario/internal/domain"
)

const (
	usersCollection  = "users"
	emailsCollection = "user_emails"
)

type userDoc struct {
	Email        string    `firestore:"email"`
	DisplayName  string    `firestore:"displayName"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// emailDoc reserves an address; its document id is the normalized email.
type emailDoc struct {
	UserID string `firestore:"userId"`
}

// UserRepository implements domain.UserRepository on Firestore. Uniqueness of
// email is enforced by creating a user_emails reservation in the same
// transaction as the user document.
type UserRepository struct {
	client *firestore.Client
}

// NewUserRepository creates a Firestore-backed UserRepository.
func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	id := uuid.NewString()

	userRef := r.client.Collection(usersCollection).Doc(id)
	emailRef := r.client.Collection(emailsCollection).Doc(emailKey(user.Email))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(emailRef, emailDoc{UserID: id}); err != nil {
			return err
		}
		return tx.Create(userRef, userDoc{
			Email:        user.Email,
			DisplayName:  user.DisplayName,
			PasswordHash: user.PasswordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	snap, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, &domain.DocumentError{Collection: usersCollection, ID: id, Field: "*", Reason: err.Error()}
	}
	return &domain.User{
		ID:           snap.Ref.ID,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	snap, err := r.client.Collection(emailsCollection).Doc(emailKey(email)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user email: %w", err)
	}

	var d emailDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, &domain.DocumentError{Collection: emailsCollection, ID: snap.Ref.ID, Field: "userId", Reason: err.Error()}
	}
	return r.GetByID(ctx, d.UserID)
}

func emailKey(email string) string {
	return url.PathEscape(strings.ToLower(strings.TrimSpace(email)))
}
