package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/repository/recipedoc"
)

// RecipeRepository implements domain.RecipeRepository on a Firestore collection.
type RecipeRepository struct {
	client *firestore.Client
}

// NewRecipeRepository creates a Firestore-backed RecipeRepository.
func NewRecipeRepository(client *firestore.Client) *RecipeRepository {
	return &RecipeRepository{client: client}
}

func (r *RecipeRepository) col() *firestore.CollectionRef {
	return r.client.Collection(recipedoc.Collection)
}

func (r *RecipeRepository) Insert(ctx context.Context, recipe *domain.Recipe) error {
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, recipedoc.FromRecipe(recipe)); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	recipe.ID = ref.ID
	return nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return decode(snap)
}

func (r *RecipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	it := r.col().Documents(ctx)
	defer it.Stop()

	var recipes []domain.Recipe
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list recipes: %w", err)
		}
		recipe, err := decode(snap)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedDocument) {
				slog.Warn("skipping malformed recipe document", "id", snap.Ref.ID, "error", err)
				continue
			}
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, nil
}

func (r *RecipeRepository) Update(ctx context.Context, id string, fields domain.RecipeFields) error {
	if !validID(id) {
		return domain.ErrNotFound
	}

	payload := recipedoc.UpdatePayload(fields, time.Now())
	ups := make([]firestore.Update, 0, len(payload))
	for path, value := range payload {
		ups = append(ups, firestore.Update{Path: path, Value: value})
	}

	// Update fails with NotFound when the document does not exist.
	if _, err := r.col().Doc(id).Update(ctx, ups); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update recipe: %w", err)
	}
	return nil
}

func decode(snap *firestore.DocumentSnapshot) (*domain.Recipe, error) {
	var doc recipedoc.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, &domain.DocumentError{Collection: recipedoc.Collection, ID: snap.Ref.ID, Field: "*", Reason: err.Error()}
	}
	return doc.Recipe(snap.Ref.ID)
}
