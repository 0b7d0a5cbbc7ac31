package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/ricettario/internal/domain"
)

// RecipeService handles recipe publishing, reading and owner edits.
type RecipeService struct {
	recipes domain.RecipeRepository
	images  *ImageService
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes domain.RecipeRepository, images *ImageService) *RecipeService {
	return &RecipeService{recipes: recipes, images: images}
}

// Create publishes a new recipe owned by the session identity. The photo, if
// any, is uploaded before the document is inserted; a failed insert leaves the
// uploaded photo orphaned.
func (s *RecipeService) Create(ctx context.Context, sess domain.Session, fields domain.RecipeFields, image *domain.ImageUpload) (*domain.Recipe, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	fields, err := normalize(fields)
	if err != nil {
		return nil, err
	}
	fields.ImageURL = ""
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.images.Upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		fields.ImageURL = url
	}

	recipe := &domain.Recipe{
		OwnerID:      sess.User.ID,
		RecipeFields: fields,
	}
	if err := s.recipes.Insert(ctx, recipe); err != nil {
		if fields.ImageURL != "" {
			slog.Warn("recipe insert failed after image upload", "image_url", fields.ImageURL)
		}
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	return recipe, nil
}

// GetByID returns a recipe by ID.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.recipes.GetByID(ctx, id)
}

// List returns every recipe in the collection.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	return s.recipes.List(ctx)
}

// LoadForEdit returns a recipe only if the session identity owns it.
func (s *RecipeService) LoadForEdit(ctx context.Context, sess domain.Session, id string) (*domain.Recipe, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Owns(recipe.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return recipe, nil
}

// Update overwrites the editable fields of a recipe the session owns.
// Ownership is checked again at write time. Without a new photo the stored
// image URL is kept.
func (s *RecipeService) Update(ctx context.Context, sess domain.Session, id string, fields domain.RecipeFields, image *domain.ImageUpload) (*domain.Recipe, error) {
	existing, err := s.LoadForEdit(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	fields, err = normalize(fields)
	if err != nil {
		return nil, err
	}
	fields.ImageURL = existing.ImageURL
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.images.Upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		fields.ImageURL = url
	}

	if err := s.recipes.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	existing.RecipeFields = fields
	return existing, nil
}

func normalize(f domain.RecipeFields) (domain.RecipeFields, error) {
	d, err := domain.ParseDifficulty(string(f.Difficulty))
	if err != nil {
		return f, err
	}
	f.Difficulty = d
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Ingredients = trimLines(f.Ingredients)
	f.Steps = trimLines(f.Steps)
	return f, nil
}

func trimLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
