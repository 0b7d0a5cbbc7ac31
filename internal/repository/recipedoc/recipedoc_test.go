package recipedoc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/repository/recipedoc"
)

func TestRoundTrip(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &domain.Recipe{
		OwnerID: "owner-1",
		RecipeFields: domain.RecipeFields{
			Title:       "Tiramisù",
			Description: "Dessert",
			Time:        30,
			Difficulty:  domain.DifficultyMedium,
			Ingredients: []string{"mascarpone", "coffee"},
			Steps:       []string{"mix", "chill"},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}

	got, err := recipedoc.FromRecipe(r).Recipe("doc-1")
	if err != nil {
		t.Fatalf("Recipe: %v", err)
	}

	want := *r
	want.ID = "doc-1"
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecipe_LegacyDocument(t *testing.T) {
	doc := recipedoc.Document{
		Title:       "Carbonara",
		Description: "Roman pasta",
		Time:        20,
		Difficulty:  "facile",
		OwnerID:     "owner-1",
	}

	got, err := doc.Recipe("legacy")
	if err != nil {
		t.Fatalf("Recipe: %v", err)
	}
	if got.Difficulty != domain.DifficultyEasy {
		t.Fatalf("expected easy, got %q", got.Difficulty)
	}
	if got.Ingredients == nil || len(got.Ingredients) != 0 {
		t.Fatalf("expected empty ingredients, got %#v", got.Ingredients)
	}
	if got.Steps == nil || len(got.Steps) != 0 {
		t.Fatalf("expected empty steps, got %#v", got.Steps)
	}
}

func TestRecipe_Malformed(t *testing.T) {
	base := recipedoc.Document{
		Title:      "Ok",
		Time:       10,
		Difficulty: "easy",
		OwnerID:    "owner",
	}

	tests := []struct {
		name   string
		field  string
		mutate func(d *recipedoc.Document)
	}{
		{"empty title", recipedoc.FieldTitle, func(d *recipedoc.Document) { d.Title = "" }},
		{"missing owner", recipedoc.FieldOwnerID, func(d *recipedoc.Document) { d.OwnerID = "" }},
		{"zero time", recipedoc.FieldTime, func(d *recipedoc.Document) { d.Time = 0 }},
		{"unknown difficulty", recipedoc.FieldDifficulty, func(d *recipedoc.Document) { d.Difficulty = "impossible" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := base
			tc.mutate(&d)
			_, err := d.Recipe("bad")
			if !errors.Is(err, domain.ErrMalformedDocument) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
			var docErr *domain.DocumentError
			if !errors.As(err, &docErr) {
				t.Fatalf("expected *DocumentError, got %T", err)
			}
			if docErr.Field != tc.field || docErr.ID != "bad" {
				t.Fatalf("unexpected error details: %+v", docErr)
			}
		})
	}
}

func TestUpdatePayload_ExcludesOwner(t *testing.T) {
	payload := recipedoc.UpdatePayload(domain.RecipeFields{Title: "x"}, time.Now())
	if _, ok := payload[recipedoc.FieldOwnerID]; ok {
		t.Fatal("update payload must not contain the owner field")
	}
	for _, f := range []string{recipedoc.FieldTitle, recipedoc.FieldImageURL, recipedoc.FieldIngredients, recipedoc.FieldSteps} {
		if _, ok := payload[f]; !ok {
			t.Fatalf("update payload missing %q", f)
		}
	}
}
