// Package view holds the templ components that render the site's pages and
// the fragments patched in by datastar.
package view

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/msomdec/ricettario/internal/domain"
)

// Flash kinds.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification shown at the top of the next page.
type Flash struct {
	Kind    string
	Message string
}

// Page carries what the layout needs on every page.
type Page struct {
	Title   string
	Session domain.Session
	Flash   *Flash
}

// DifficultyLabel returns the display label of a difficulty.
func DifficultyLabel(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return "Easy"
	case domain.DifficultyMedium:
		return "Medium"
	case domain.DifficultyHard:
		return "Hard"
	}
	return string(d)
}

// RecipeForm is the state of a create or edit form.
type RecipeForm struct {
	// RecipeID is empty when creating.
	RecipeID string
	Fields   domain.RecipeFields
	Error    string
}

// Editing reports whether the form edits an existing recipe.
func (f RecipeForm) Editing() bool { return f.RecipeID != "" }

// Action is the URL the form posts to.
func (f RecipeForm) Action() string {
	if f.Editing() {
		return "/recipes/" + f.RecipeID
	}
	return "/recipes"
}

// Signals returns the initial datastar signals of the form.
func (f RecipeForm) Signals() string {
	ingredients, steps := f.Fields.Ingredients, f.Fields.Steps
	if ingredients == nil {
		ingredients = []string{}
	}
	if steps == nil {
		steps = []string{}
	}
	b, _ := json.Marshal(map[string]any{
		"ingredients":     ingredients,
		"steps":           steps,
		"ingredientInput": "",
		"stepInput":       "",
	})
	return string(b)
}

func pageTitle(title string) string {
	if title == "" {
		return "Ricettario"
	}
	return title + " · Ricettario"
}

func recipeURL(id string) string { return "/recipes/" + id }

func editURL(id string) string { return "/recipes/" + id + "/edit" }

func summary(f domain.RecipeFields) string {
	return strconv.Itoa(f.Time) + " min · " + DifficultyLabel(f.Difficulty)
}

func timeValue(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return strconv.Itoa(minutes)
}

// refreshContent builds a meta refresh value. The delay never rounds down to
// an immediate redirect.
func refreshContent(delay time.Duration, next string) string {
	secs := max(int(delay.Round(time.Second)/time.Second), 1)
	return strconv.Itoa(secs) + ";url=" + next
}

func addAction(list string) string {
	return "@post('/recipes/lines/" + list + "/add')"
}

func enterToAdd(list string) string {
	return "evt.key === 'Enter' && (evt.preventDefault(), " + addAction(list) + ")"
}

func removeAction(list string, i int) string {
	return "@post('/recipes/lines/" + list + "/remove/" + strconv.Itoa(i) + "')"
}

// lineEditor describes one editable list on the recipe form.
type lineEditor struct {
	List        string
	Legend      string
	Placeholder string
	Signal      string
	Lines       []string
}

func (f RecipeForm) editors() []lineEditor {
	return []lineEditor{
		{List: "ingredients", Legend: "Ingredients", Placeholder: "Add an ingredient", Signal: "ingredientInput", Lines: f.Fields.Ingredients},
		{List: "steps", Legend: "Steps", Placeholder: "Add a step", Signal: "stepInput", Lines: f.Fields.Steps},
	}
}
