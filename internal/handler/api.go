package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/service"
)

// RecipeAPIHandler serves recipes as JSON. Photos cannot be uploaded through
// it; updates keep the stored image.
type RecipeAPIHandler struct {
	recipes *service.RecipeService
}

// NewRecipeAPIHandler creates a new RecipeAPIHandler.
func NewRecipeAPIHandler(recipes *service.RecipeService) *RecipeAPIHandler {
	return &RecipeAPIHandler{recipes: recipes}
}

// HandleList returns every recipe.
// GET /api/recipes
// Response: {"recipes": [...]}
func (h *RecipeAPIHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.List(r.Context())
	if err != nil {
		slog.Error("list recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": toRecipeDTOs(recipes)})
}

// HandleGet returns one recipe.
// GET /api/recipes/{id}
// Response: {"recipe": {...}} or 404
func (h *RecipeAPIHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipes.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeRecipeError(w, "get recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipe": toRecipeDTO(recipe)})
}

// HandleCreate publishes a recipe owned by the caller.
// POST /api/recipes
// Request:  {"title":"...","description":"...","time":30,"difficulty":"medium","ingredients":[...],"steps":[...]}
// Response: 201 {"recipe": {...}}
func (h *RecipeAPIHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	recipe, err := h.recipes.Create(r.Context(), SessionFromContext(r.Context()), req.fields(), nil)
	if err != nil {
		h.writeRecipeError(w, "create recipe", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"recipe": toRecipeDTO(recipe)})
}

// HandleUpdate overwrites the editable fields of a recipe the caller owns.
// PUT /api/recipes/{id}
// Response: {"recipe": {...}}, 403 for non-owners
func (h *RecipeAPIHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	recipe, err := h.recipes.Update(r.Context(), SessionFromContext(r.Context()), r.PathValue("id"), req.fields(), nil)
	if err != nil {
		h.writeRecipeError(w, "update recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipe": toRecipeDTO(recipe)})
}

func (h *RecipeAPIHandler) writeRecipeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMalformedDocument):
		writeError(w, http.StatusNotFound, "Recipe not found.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "You can only edit your own recipes.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
