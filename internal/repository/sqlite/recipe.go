package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/repository/recipedoc"
)

// RecipeRepository implements domain.RecipeRepository on the documents table.
// Each recipe is a JSON document in the recipes collection.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new SQLite-backed RecipeRepository.
func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db.SqlDB}
}

func (r *RecipeRepository) Insert(ctx context.Context, recipe *domain.Recipe) error {
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	data, err := json.Marshal(recipedoc.FromRecipe(recipe))
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		recipedoc.Collection, id, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	recipe.ID = id
	return nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, recipedoc.Collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return decode(id, data)
}

func (r *RecipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY seq`, recipedoc.Collection)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipe, err := decode(id, data)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedDocument) {
				slog.Warn("skipping malformed recipe document", "id", id, "error", err)
				continue
			}
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, rows.Err()
}

// Update merges the editable fields into the stored document in one
// statement. Keys the app does not know about are left as they are.
func (r *RecipeRepository) Update(ctx context.Context, id string, fields domain.RecipeFields) error {
	now := time.Now().UTC()
	patch, err := json.Marshal(recipedoc.UpdatePayload(fields, now))
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET data = json_patch(data, ?), updated_at = ? WHERE collection = ? AND id = ?`,
		string(patch), now, recipedoc.Collection, id,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func decode(id, data string) (*domain.Recipe, error) {
	var doc recipedoc.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, &domain.DocumentError{Collection: recipedoc.Collection, ID: id, Field: "*", Reason: err.Error()}
	}
	return doc.Recipe(id)
}
