package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// lineSignals are the datastar signals of the recipe form.
type lineSignals struct {
	Ingredients     []string `json:"ingredients"`
	Steps           []string `json:"steps"`
	IngredientInput string   `json:"ingredientInput"`
	StepInput       string   `json:"stepInput"`
}

// list returns the lines and pending input of the named list, plus the signal
// name of that input.
func (s lineSignals) list(name string) (lines []string, input, inputSignal string, ok bool) {
	switch name {
	case "ingredients":
		return s.Ingredients, s.IngredientInput, "ingredientInput", true
	case "steps":
		return s.Steps, s.StepInput, "stepInput", true
	}
	return nil, "", "", false
}

// HandleAddLine appends the pending input to a list and patches the list
// fragment and signals. Blank input is a no-op.
// POST /recipes/lines/{list}/add
func HandleAddLine(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("list")

	var signals lineSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	lines, input, inputSignal, ok := signals.list(name)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if strings.TrimSpace(input) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	lines = domain.AppendLine(lines, input)
	patchLines(w, r, name, lines, map[string]any{name: lines, inputSignal: ""})
}

// HandleRemoveLine removes the entry currently displayed at a position.
// An index past the end is a no-op.
// POST /recipes/lines/{list}/remove/{index}
func HandleRemoveLine(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("list")

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var signals lineSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	lines, _, _, ok := signals.list(name)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	lines = domain.RemoveLine(lines, index)
	patchLines(w, r, name, lines, map[string]any{name: lines})
}

func patchLines(w http.ResponseWriter, r *http.Request, name string, lines []string, signals map[string]any) {
	if lines == nil {
		lines = []string{}
		signals[name] = lines
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.LineList(name, lines)); err != nil {
		slog.Error("patch line list", "list", name, "error", err)
		return
	}
	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		slog.Error("patch line signals", "list", name, "error", err)
	}
}
