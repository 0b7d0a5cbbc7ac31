package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/service"
)

type recipeFixture struct {
	recipes *service.RecipeService
	alice   domain.Session
	bob     domain.Session
	blobs   *countingBlobs
}

// countingBlobs wraps a blob store and counts uploads.
type countingBlobs struct {
	domain.BlobStore
	uploads int
}

func (c *countingBlobs) Upload(ctx context.Context, path, contentType string, data []byte) error {
	c.uploads++
	return c.BlobStore.Upload(ctx, path, contentType, data)
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	users := db.Users()
	alice := &domain.User{Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "h"}
	bob := &domain.User{Email: "bob@example.com", DisplayName: "Bob", PasswordHash: "h"}
	for _, u := range []*domain.User{alice, bob} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	blobs := &countingBlobs{BlobStore: db.Blobs()}
	return &recipeFixture{
		recipes: service.NewRecipeService(db.Recipes(), service.NewImageService(blobs, 0)),
		alice:   domain.Session{User: alice},
		bob:     domain.Session{User: bob},
		blobs:   blobs,
	}
}

func tiramisuFields() domain.RecipeFields {
	return domain.RecipeFields{
		Title:       "Tiramisù",
		Description: "Coffee and mascarpone dessert",
		Time:        30,
		Difficulty:  domain.DifficultyMedium,
		Ingredients: []string{"mascarpone", "coffee"},
		Steps:       []string{"mix", "chill"},
	}
}

func TestRecipeService_Create_NoImage(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	fields := tiramisuFields()
	fields.ImageURL = "https://evil.example/forged.jpg"

	r, err := f.recipes.Create(ctx, f.alice, fields, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ID == "" {
		t.Fatal("expected store-assigned ID")
	}
	if r.OwnerID != f.alice.User.ID {
		t.Fatalf("expected owner %s, got %s", f.alice.User.ID, r.OwnerID)
	}

	stored, err := f.recipes.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ImageURL != "" {
		t.Fatalf("expected no image, got %q", stored.ImageURL)
	}
	if diff := cmp.Diff([]string{"mascarpone", "coffee"}, stored.Ingredients); diff != "" {
		t.Fatalf("ingredients mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"mix", "chill"}, stored.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if f.blobs.uploads != 0 {
		t.Fatalf("expected no uploads, got %d", f.blobs.uploads)
	}

	all, err := f.recipes.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one document, got %d", len(all))
	}
}

func TestRecipeService_Create_WithImage(t *testing.T) {
	f := newRecipeFixture(t)

	r, err := f.recipes.Create(context.Background(), f.alice, tiramisuFields(), &domain.ImageUpload{Filename: "t.png", Data: pngBytes})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ImageURL == "" {
		t.Fatal("expected image URL to be set")
	}
	if f.blobs.uploads != 1 {
		t.Fatalf("expected one upload, got %d", f.blobs.uploads)
	}
}

func TestRecipeService_Create_RequiresIdentity(t *testing.T) {
	f := newRecipeFixture(t)

	_, err := f.recipes.Create(context.Background(), domain.Session{}, tiramisuFields(), nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRecipeService_Create_RequiresLines(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	noIngredients := tiramisuFields()
	noIngredients.Ingredients = nil
	noSteps := tiramisuFields()
	noSteps.Steps = []string{}

	for _, fields := range []domain.RecipeFields{noIngredients, noSteps} {
		_, err := f.recipes.Create(ctx, f.alice, fields, &domain.ImageUpload{Filename: "t.png", Data: pngBytes})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}

	// Validation runs before the upload.
	if f.blobs.uploads != 0 {
		t.Fatalf("expected no uploads, got %d", f.blobs.uploads)
	}
	all, _ := f.recipes.List(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no documents, got %d", len(all))
	}
}

func TestRecipeService_Update_KeepsImageAndOwner(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	r, err := f.recipes.Create(ctx, f.alice, tiramisuFields(), &domain.ImageUpload{Filename: "t.png", Data: pngBytes})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	imageURL := r.ImageURL

	fields := tiramisuFields()
	fields.Time = 45
	if _, err := f.recipes.Update(ctx, f.alice, r.ID, fields, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := f.recipes.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Time != 45 {
		t.Fatalf("expected time 45, got %d", got.Time)
	}
	if got.ImageURL != imageURL {
		t.Fatalf("expected image %q to be kept, got %q", imageURL, got.ImageURL)
	}
	if got.OwnerID != f.alice.User.ID {
		t.Fatalf("owner changed to %s", got.OwnerID)
	}
}

func TestRecipeService_Update_ReplacesImage(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	r, err := f.recipes.Create(ctx, f.alice, tiramisuFields(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.recipes.Update(ctx, f.alice, r.ID, tiramisuFields(), &domain.ImageUpload{Filename: "new.png", Data: pngBytes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ImageURL == "" {
		t.Fatal("expected new image URL")
	}
}

func TestRecipeService_NonOwnerRefused(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	r, err := f.recipes.Create(ctx, f.alice, tiramisuFields(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.recipes.LoadForEdit(ctx, f.bob, r.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("LoadForEdit: expected ErrForbidden, got %v", err)
	}

	fields := tiramisuFields()
	fields.Title = "Hijacked"
	if _, err := f.recipes.Update(ctx, f.bob, r.ID, fields, nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update: expected ErrForbidden, got %v", err)
	}

	got, _ := f.recipes.GetByID(ctx, r.ID)
	if got.Title != "Tiramisù" {
		t.Fatalf("non-owner update applied: %q", got.Title)
	}
}

func TestRecipeService_LoadForEdit_NotFound(t *testing.T) {
	f := newRecipeFixture(t)

	_, err := f.recipes.LoadForEdit(context.Background(), f.alice, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecipeService_LoadForEdit_Anonymous(t *testing.T) {
	f := newRecipeFixture(t)

	_, err := f.recipes.LoadForEdit(context.Background(), domain.Session{}, "any")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// failingWrites reads through to the wrapped repository and rejects every
// write.
type failingWrites struct{ domain.RecipeRepository }

func (failingWrites) Insert(ctx context.Context, r *domain.Recipe) error {
	return errors.New("store unavailable")
}

func (failingWrites) Update(ctx context.Context, id string, fields domain.RecipeFields) error {
	return errors.New("store unavailable")
}

func TestRecipeService_Create_InsertFailure(t *testing.T) {
	db := newTestDB(t)
	blobs := &countingBlobs{BlobStore: db.Blobs()}
	recipes := service.NewRecipeService(failingWrites{db.Recipes()}, service.NewImageService(blobs, 0))
	sess := domain.Session{User: &domain.User{ID: "u1"}}

	_, err := recipes.Create(context.Background(), sess, tiramisuFields(), &domain.ImageUpload{Filename: "t.png", Data: pngBytes})
	if err == nil {
		t.Fatal("expected error")
	}
	// The photo was uploaded and is left in place.
	if blobs.uploads != 1 {
		t.Fatalf("expected one upload, got %d", blobs.uploads)
	}
	all, _ := db.Recipes().List(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected no documents, got %d", len(all))
	}
}

func TestRecipeService_Update_WriteFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := &domain.User{Email: "owner@example.com", DisplayName: "Owner", PasswordHash: "h"}
	if err := db.Users().Create(ctx, owner); err != nil {
		t.Fatalf("create user: %v", err)
	}
	sess := domain.Session{User: owner}

	images := service.NewImageService(db.Blobs(), 0)
	created, err := service.NewRecipeService(db.Recipes(), images).Create(ctx, sess, tiramisuFields(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	edited := tiramisuFields()
	edited.Title = "Tiramisù al limone"
	edited.Steps = []string{"zest", "mix", "chill"}

	failing := service.NewRecipeService(failingWrites{db.Recipes()}, images)
	if _, err := failing.Update(ctx, sess, created.ID, edited, nil); err == nil {
		t.Fatal("expected write error")
	}

	stored, err := db.Recipes().GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(created.RecipeFields, stored.RecipeFields); diff != "" {
		t.Fatalf("stored recipe changed after a failed write (-want +got):\n%s", diff)
	}
}
