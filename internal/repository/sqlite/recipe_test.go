package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/msomdec/ricettario/internal/domain"
)

func tiramisu(owner string) *domain.Recipe {
	return &domain.Recipe{
		OwnerID: owner,
		RecipeFields: domain.RecipeFields{
			Title:       "Tiramisù",
			Description: "Coffee dessert",
			Time:        30,
			Difficulty:  domain.DifficultyMedium,
			Ingredients: []string{"mascarpone", "coffee"},
			Steps:       []string{"mix", "chill"},
		},
	}
}

func TestRecipeRepository_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := db.Recipes()
	ctx := context.Background()

	r := tiramisu("owner-1")
	r.ID = "client-chosen"
	if err := repo.Insert(ctx, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if r.ID == "" || r.ID == "client-chosen" {
		t.Fatalf("expected store-assigned ID, got %q", r.ID)
	}

	got, err := repo.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %s", got.OwnerID)
	}
	if diff := cmp.Diff(r.RecipeFields, got.RecipeFields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if got.ImageURL != "" {
		t.Fatalf("expected no image, got %q", got.ImageURL)
	}
}

func TestRecipeRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Recipes().GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecipeRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := db.Recipes()
	ctx := context.Background()

	empty, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no recipes, got %d", len(empty))
	}

	first := tiramisu("a")
	second := tiramisu("b")
	second.Title = "Carbonara"
	for _, r := range []*domain.Recipe{first, second} {
		if err := repo.Insert(ctx, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected insertion order, got %s, %s", list[0].Title, list[1].Title)
	}
}

func TestRecipeRepository_List_SkipsMalformed(t *testing.T) {
	db := newTestDB(t)
	repo := db.Recipes()
	ctx := context.Background()

	if err := repo.Insert(ctx, tiramisu("a")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, err := db.SqlDB.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ('recipes', 'broken', '{"title":"","time":"soon"}')`)
	if err != nil {
		t.Fatalf("insert broken document: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected malformed document to be skipped, got %d recipes", len(list))
	}

	if _, err := repo.GetByID(ctx, "broken"); !errors.Is(err, domain.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestRecipeRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := db.Recipes()
	ctx := context.Background()

	r := tiramisu("owner-1")
	r.ImageURL = "/blobs/recipes/1_a.jpg"
	if err := repo.Insert(ctx, r); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	fields := r.RecipeFields
	fields.Time = 45
	fields.Steps = []string{"mix", "chill", "dust with cocoa"}
	if err := repo.Update(ctx, r.ID, fields); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OwnerID != "owner-1" {
		t.Fatalf("owner changed to %q", got.OwnerID)
	}
	if diff := cmp.Diff(fields, got.RecipeFields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !got.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("created at changed: %v -> %v", r.CreatedAt, got.CreatedAt)
	}
}

func TestRecipeRepository_Update_KeepsUnknownKeys(t *testing.T) {
	db := newTestDB(t)
	repo := db.Recipes()
	ctx := context.Background()

	_, err := db.SqlDB.ExecContext(ctx, `INSERT INTO documents (collection, id, data) VALUES ('recipes', 'legacy', ?)`,
		`{"title":"Tiramisù","description":"Coffee dessert","time":30,"difficulty":"medium","userId":"owner-1",`+
			`"ingredients":["mascarpone"],"steps":["mix"],"createdAt":"2024-03-01T10:00:00Z","servings":6}`)
	if err != nil {
		t.Fatalf("insert legacy document: %v", err)
	}

	fields := tiramisu("owner-1").RecipeFields
	fields.Title = "Tiramisù della nonna"
	if err := repo.Update(ctx, "legacy", fields); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var servings int
	var owner string
	err = db.SqlDB.QueryRowContext(ctx,
		`SELECT json_extract(data, '$.servings'), json_extract(data, '$.userId') FROM documents WHERE id = 'legacy'`,
	).Scan(&servings, &owner)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if servings != 6 {
		t.Fatalf("unknown key lost: servings = %d", servings)
	}
	if owner != "owner-1" {
		t.Fatalf("owner changed to %q", owner)
	}

	got, err := repo.GetByID(ctx, "legacy")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(fields, got.RecipeFields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC); !got.CreatedAt.Equal(want) {
		t.Fatalf("created at changed to %v", got.CreatedAt)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("updated at not advanced: %v", got.UpdatedAt)
	}
}

func TestRecipeRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Recipes().Update(context.Background(), "missing", tiramisu("x").RecipeFields)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
