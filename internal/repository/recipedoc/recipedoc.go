// Package recipedoc is the schema boundary between stored recipe documents and
// domain.Recipe. Every backend encodes and decodes recipes through it.
package recipedoc

import (
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/ricettario/internal/domain"
)

// Collection is the name of the recipe collection in every backend.
const Collection = "recipes"

// Field names as stored. They match the documents written by the first
// version of the app.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTime        = "time"
	FieldDifficulty  = "difficulty"
	FieldImageURL    = "imageUrl"
	FieldOwnerID     = "userId"
	FieldIngredients = "ingredients"
	FieldSteps       = "steps"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// Document is the stored shape of a recipe.
type Document struct {
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Time        int64     `json:"time" firestore:"time"`
	Difficulty  string    `json:"difficulty" firestore:"difficulty"`
	ImageURL    string    `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	OwnerID     string    `json:"userId" firestore:"userId"`
	Ingredients []string  `json:"ingredients" firestore:"ingredients"`
	Steps       []string  `json:"steps" firestore:"steps"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero" firestore:"updatedAt,omitempty"`
}

// FromRecipe builds the document written on insert.
func FromRecipe(r *domain.Recipe) Document {
	return Document{
		Title:       r.Title,
		Description: r.Description,
		Time:        int64(r.Time),
		Difficulty:  string(r.Difficulty),
		ImageURL:    r.ImageURL,
		OwnerID:     r.OwnerID,
		Ingredients: nonNil(r.Ingredients),
		Steps:       nonNil(r.Steps),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// UpdatePayload lists the stored fields an edit overwrites, keyed by field
// name. It never contains the owner or the identifier.
func UpdatePayload(fields domain.RecipeFields, now time.Time) map[string]any {
	return map[string]any{
		FieldTitle:       fields.Title,
		FieldDescription: fields.Description,
		FieldTime:        int64(fields.Time),
		FieldDifficulty:  string(fields.Difficulty),
		FieldImageURL:    fields.ImageURL,
		FieldIngredients: nonNil(fields.Ingredients),
		FieldSteps:       nonNil(fields.Steps),
		FieldUpdatedAt:   now.UTC(),
	}
}

// Recipe validates the document and converts it into a domain.Recipe.
func (d Document) Recipe(id string) (*domain.Recipe, error) {
	fail := func(field, reason string) error {
		return &domain.DocumentError{Collection: Collection, ID: id, Field: field, Reason: reason}
	}

	if strings.TrimSpace(d.Title) == "" {
		return nil, fail(FieldTitle, "empty")
	}
	if strings.TrimSpace(d.OwnerID) == "" {
		return nil, fail(FieldOwnerID, "empty")
	}
	if d.Time < 1 {
		return nil, fail(FieldTime, "must be a positive number of minutes")
	}
	difficulty, err := domain.ParseDifficulty(d.Difficulty)
	if err != nil {
		return nil, fail(FieldDifficulty, "unknown value "+strconv.Quote(d.Difficulty))
	}

	updated := d.UpdatedAt
	if updated.IsZero() {
		updated = d.CreatedAt
	}

	return &domain.Recipe{
		ID:      id,
		OwnerID: d.OwnerID,
		RecipeFields: domain.RecipeFields{
			Title:       d.Title,
			Description: d.Description,
			Time:        int(d.Time),
			Difficulty:  difficulty,
			ImageURL:    d.ImageURL,
			Ingredients: nonNil(d.Ingredients),
			Steps:       nonNil(d.Steps),
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: updated,
	}, nil
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
