package handler_test

import (
	"net/http"
	"strings"
	"testing"
)

func postSignals(t *testing.T, client *http.Client, target, signals string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(signals))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	return resp, readBody(t, resp)
}

func TestLines_Add(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, client, "lines@example.com")

	resp, body := postSignals(t, client, app.srv.URL+"/recipes/lines/ingredients/add",
		`{"ingredients":["mascarpone"],"steps":[],"ingredientInput":"  coffee  ","stepInput":"keep"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected SSE, got %s", ct)
	}
	for _, want := range []string{
		"datastar-patch-elements",
		`id="ingredients-list"`,
		`value="mascarpone"`,
		`value="coffee"`,
		"/recipes/lines/ingredients/remove/1",
		"datastar-patch-signals",
		`"ingredientInput":""`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in response:\n%s", want, body)
		}
	}
	if strings.Contains(body, "stepInput") {
		t.Fatal("the other list's input must not be touched")
	}
}

func TestLines_AddBlankIsNoop(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, client, "blank@example.com")

	resp, body := postSignals(t, client, app.srv.URL+"/recipes/lines/steps/add",
		`{"ingredients":[],"steps":["mix"],"ingredientInput":"","stepInput":"   "}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if body != "" {
		t.Fatalf("expected empty body, got %q", body)
	}
}

func TestLines_RemoveByPosition(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, client, "remove@example.com")

	resp, body := postSignals(t, client, app.srv.URL+"/recipes/lines/steps/remove/1",
		`{"ingredients":[],"steps":["mix","chill","serve"],"ingredientInput":"","stepInput":""}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(body, `value="chill"`) {
		t.Fatal("entry at position 1 should be removed")
	}
	if !strings.Contains(body, `value="mix"`) || !strings.Contains(body, `value="serve"`) {
		t.Fatal("other entries should remain")
	}
	// serve shifted back to position 1.
	if strings.Contains(body, "/recipes/lines/steps/remove/2") {
		t.Fatal("positions should be recomputed")
	}
	if !strings.Contains(body, `"steps":["mix","serve"]`) {
		t.Fatalf("expected steps signal patch, got:\n%s", body)
	}
}

func TestLines_BadRequests(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, client, "bad@example.com")

	signals := `{"ingredients":[],"steps":[],"ingredientInput":"x","stepInput":""}`

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown list", "/recipes/lines/tools/add", http.StatusNotFound},
		{"non-numeric index", "/recipes/lines/steps/remove/first", http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := postSignals(t, client, app.srv.URL+tc.path, signals)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}

	// Anonymous requests are refused.
	resp, _ := postSignals(t, newClient(t), app.srv.URL+"/recipes/lines/steps/add", signals)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", resp.StatusCode)
	}
}
