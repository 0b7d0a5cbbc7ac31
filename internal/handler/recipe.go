package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/service"
	"github.com/msomdec/ricettario/internal/view"
)

// DefaultRedirectDelay is how long the published/updated notice stays up
// before navigating away.
const DefaultRedirectDelay = 2 * time.Second

// multipart overhead allowed on top of the image limit.
const formOverhead = 1 << 20

// RecipeHandler serves the recipe pages.
type RecipeHandler struct {
	recipes       *service.RecipeService
	redirectDelay time.Duration
	maxImageBytes int64
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes *service.RecipeService, redirectDelay time.Duration, maxImageBytes int64) *RecipeHandler {
	if redirectDelay < 0 {
		redirectDelay = DefaultRedirectDelay
	}
	if maxImageBytes <= 0 {
		maxImageBytes = service.DefaultMaxImageSize
	}
	return &RecipeHandler{recipes: recipes, redirectDelay: redirectDelay, maxImageBytes: maxImageBytes}
}

// HandleFeed renders every recipe as a card.
// GET /
func (h *RecipeHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	page := newPage(w, r, "")

	recipes, err := h.recipes.List(r.Context())
	if err != nil {
		slog.Error("list recipes", "error", err)
		page.Flash = &view.Flash{Kind: view.FlashError, Message: "Could not load recipes. Please try again."}
		w.WriteHeader(http.StatusInternalServerError)
		view.FeedPage(page, nil).Render(r.Context(), w)
		return
	}

	view.FeedPage(page, recipes).Render(r.Context(), w)
}

// HandleDetail renders one recipe, or the not-found page.
// GET /recipes/{id}
func (h *RecipeHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	recipe, err := h.recipes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrMalformedDocument) {
			if errors.Is(err, domain.ErrMalformedDocument) {
				slog.Warn("malformed recipe document", "id", id, "error", err)
			}
			page := newPage(w, r, "Not found")
			w.WriteHeader(http.StatusNotFound)
			view.NotFoundPage(page).Render(r.Context(), w)
			return
		}
		slog.Error("get recipe", "id", id, "error", err)
		redirectWithFlash(w, r, "/", view.FlashError, "Could not load the recipe. Please try again.")
		return
	}

	view.DetailPage(newPage(w, r, recipe.Title), recipe).Render(r.Context(), w)
}

// HandleNew renders the empty recipe form.
// GET /recipes/new
func (h *RecipeHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	view.RecipeFormPage(newPage(w, r, "New recipe"), view.RecipeForm{}).Render(r.Context(), w)
}

// HandleCreate publishes a recipe from the multipart form.
// POST /recipes
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	fields, image, err := h.parseRecipeForm(w, r)
	if err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, view.RecipeForm{Fields: fields, Error: formErrorMessage(err)})
		return
	}

	if _, err := h.recipes.Create(r.Context(), sess, fields, image); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.renderForm(w, r, http.StatusUnprocessableEntity, view.RecipeForm{Fields: fields, Error: formErrorMessage(err)})
		case errors.Is(err, domain.ErrUnauthorized):
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		default:
			slog.Error("create recipe", "user_id", sess.User.ID, "error", err)
			h.renderForm(w, r, http.StatusInternalServerError, view.RecipeForm{Fields: fields, Error: "Could not publish the recipe. Please try again."})
		}
		return
	}

	view.NoticePage(newPage(w, r, ""), "Recipe published.", "/", h.redirectDelay).Render(r.Context(), w)
}

// HandleEdit renders the edit form for the owner. Anyone else is sent back to
// the feed with a notification before any field is rendered.
// GET /recipes/{id}/edit
func (h *RecipeHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	recipe, err := h.recipes.LoadForEdit(r.Context(), SessionFromContext(r.Context()), id)
	if err != nil {
		h.refuseEdit(w, r, id, err)
		return
	}

	view.RecipeFormPage(newPage(w, r, "Edit recipe"), view.RecipeForm{RecipeID: recipe.ID, Fields: recipe.RecipeFields}).Render(r.Context(), w)
}

// HandleUpdate saves the owner's edits.
// POST /recipes/{id}
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess := SessionFromContext(r.Context())

	fields, image, err := h.parseRecipeForm(w, r)
	if err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, view.RecipeForm{RecipeID: id, Fields: fields, Error: formErrorMessage(err)})
		return
	}

	if _, err := h.recipes.Update(r.Context(), sess, id, fields, image); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.renderForm(w, r, http.StatusUnprocessableEntity, view.RecipeForm{RecipeID: id, Fields: fields, Error: formErrorMessage(err)})
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrMalformedDocument), errors.Is(err, domain.ErrUnauthorized):
			h.refuseEdit(w, r, id, err)
		default:
			slog.Error("update recipe", "id", id, "user_id", sess.User.ID, "error", err)
			h.renderForm(w, r, http.StatusInternalServerError, view.RecipeForm{RecipeID: id, Fields: fields, Error: "Could not save your changes. Please try again."})
		}
		return
	}

	view.NoticePage(newPage(w, r, ""), "Recipe updated.", "/recipes/"+id, h.redirectDelay).Render(r.Context(), w)
}

func (h *RecipeHandler) refuseEdit(w http.ResponseWriter, r *http.Request, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		redirectWithFlash(w, r, "/", view.FlashError, "You can only edit your own recipes.")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMalformedDocument):
		redirectWithFlash(w, r, "/", view.FlashError, "That recipe could not be found.")
	case errors.Is(err, domain.ErrUnauthorized):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		slog.Error("load recipe for edit", "id", id, "error", err)
		redirectWithFlash(w, r, "/", view.FlashError, "Could not load the recipe. Please try again.")
	}
}

func (h *RecipeHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form view.RecipeForm) {
	title := "New recipe"
	if form.Editing() {
		title = "Edit recipe"
	}
	page := newPage(w, r, title)
	w.WriteHeader(status)
	view.RecipeFormPage(page, form).Render(r.Context(), w)
}

// formErrorMessage turns a validation error into the inline form message.
// Anything else gets a generic message.
func formErrorMessage(err error) string {
	if !errors.Is(err, domain.ErrInvalidInput) {
		return "Please check the form and try again."
	}
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return "Please check the form and try again."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// parseRecipeForm reads the recipe fields and optional photo. The fields are
// returned even on error so the form can be re-rendered with what was entered.
// Ingredients and steps arrive as repeated hidden inputs in display order.
func (h *RecipeHandler) parseRecipeForm(w http.ResponseWriter, r *http.Request) (domain.RecipeFields, *domain.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+formOverhead)
	if err := r.ParseMultipartForm(h.maxImageBytes + formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return domain.RecipeFields{}, nil, fmt.Errorf("%w: form is too large (photo limit %d MB)", domain.ErrInvalidInput, h.maxImageBytes>>20)
	}

	fields := domain.RecipeFields{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Difficulty:  domain.Difficulty(r.FormValue("difficulty")),
		Ingredients: r.Form["ingredients"],
		Steps:       r.Form["steps"],
	}

	t, err := strconv.Atoi(strings.TrimSpace(r.FormValue("time")))
	if err != nil {
		return fields, nil, fmt.Errorf("%w: time must be a whole number of minutes", domain.ErrInvalidInput)
	}
	fields.Time = t

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return fields, nil, nil
		}
		return fields, nil, fmt.Errorf("read image: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fields, nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return fields, nil, nil
	}
	return fields, &domain.ImageUpload{Filename: header.Filename, Data: data}, nil
}
