package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the allowed values in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// legacy values written by the first version of the app.
var legacyDifficulties = map[string]Difficulty{
	"facile":    DifficultyEasy,
	"media":     DifficultyMedium,
	"difficile": DifficultyHard,
}

// ParseDifficulty converts a stored or submitted value into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch d := Difficulty(v); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	if d, ok := legacyDifficulties[v]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: difficulty must be easy, medium, or hard", ErrInvalidInput)
}

// RecipeFields holds everything an owner can edit on a recipe.
type RecipeFields struct {
	Title       string
	Description string
	Time        int // minutes
	Difficulty  Difficulty
	ImageURL    string
	Ingredients []string
	Steps       []string
}

// Validate checks the fields before a create or update is committed.
func (f RecipeFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(f.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if f.Time < 1 {
		return fmt.Errorf("%w: time must be at least 1 minute", ErrInvalidInput)
	}
	if _, err := ParseDifficulty(string(f.Difficulty)); err != nil {
		return err
	}
	if len(f.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrInvalidInput)
	}
	for i, line := range f.Ingredients {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("%w: ingredient %d is empty", ErrInvalidInput, i+1)
		}
	}
	if len(f.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrInvalidInput)
	}
	for i, line := range f.Steps {
		if strings.TrimSpace(line) == "" {
			return fmt.Errorf("%w: step %d is empty", ErrInvalidInput, i+1)
		}
	}
	return nil
}

// Recipe is a published recipe document. ID is assigned by the document store
// and OwnerID is set once at creation.
type Recipe struct {
	ID      string
	OwnerID string
	RecipeFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeRepository defines persistence operations for recipe documents.
type RecipeRepository interface {
	// Insert stores a new document and sets recipe.ID from the store.
	Insert(ctx context.Context, recipe *Recipe) error
	GetByID(ctx context.Context, id string) (*Recipe, error)
	// List returns every document in the collection.
	List(ctx context.Context) ([]Recipe, error)
	// Update overwrites the editable fields of an existing document.
	Update(ctx context.Context, id string, fields RecipeFields) error
}
