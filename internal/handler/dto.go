package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/ricettario/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

// RecipeDTO is the JSON representation of a recipe.
type RecipeDTO struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Time        int      `json:"time"`
	Difficulty  string   `json:"difficulty"`
	ImageURL    string   `json:"imageUrl"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toRecipeDTO(r *domain.Recipe) RecipeDTO {
	ingredients, steps := r.Ingredients, r.Steps
	if ingredients == nil {
		ingredients = []string{}
	}
	if steps == nil {
		steps = []string{}
	}
	return RecipeDTO{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Time:        r.Time,
		Difficulty:  string(r.Difficulty),
		ImageURL:    r.ImageURL,
		Ingredients: ingredients,
		Steps:       steps,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}

func toRecipeDTOs(recipes []domain.Recipe) []RecipeDTO {
	dtos := make([]RecipeDTO, len(recipes))
	for i := range recipes {
		dtos[i] = toRecipeDTO(&recipes[i])
	}
	return dtos
}

// RecipeRequest is the JSON body of a create or update. Owner, identifier and
// image are never taken from the client.
type RecipeRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Time        int      `json:"time"`
	Difficulty  string   `json:"difficulty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

func (req RecipeRequest) fields() domain.RecipeFields {
	return domain.RecipeFields{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Difficulty:  domain.Difficulty(req.Difficulty),
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	}
}

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeBody reads a request payload of at most maxJSONBody bytes into dst and
// answers 400 itself when the body is not valid JSON. Client-supplied fields
// the payload type does not declare are dropped.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}
