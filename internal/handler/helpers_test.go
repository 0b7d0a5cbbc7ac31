package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/handler"
	"github.com/msomdec/ricettario/internal/repository/sqlite"
	"github.com/msomdec/ricettario/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testApp struct {
	db      *sqlite.DB
	auth    *service.AuthService
	recipes *service.RecipeService
	srv     *httptest.Server
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return service.NewAuthService(newTestDB(t).Users(), testJWTSecret, 4)
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithRecipes(t, nil)
}

// newTestAppWithRecipes builds the app with its recipe repository passed
// through wrap, so a test can inject store failures.
func newTestAppWithRecipes(t *testing.T, wrap func(domain.RecipeRepository) domain.RecipeRepository) *testApp {
	t.Helper()
	db := newTestDB(t)
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	var repo domain.RecipeRepository = db.Recipes()
	if wrap != nil {
		repo = wrap(repo)
	}
	recipes := service.NewRecipeService(repo, service.NewImageService(db.Blobs(), 0))

	srv := httptest.NewServer(handler.NewRouter(handler.Deps{
		Auth:          auth,
		Recipes:       recipes,
		Blobs:         db.Blobs(),
		Health:        db,
		Backend:       "sqlite",
		RedirectDelay: handler.DefaultRedirectDelay,
	}))
	t.Cleanup(srv.Close)

	return &testApp{db: db, auth: auth, recipes: recipes, srv: srv}
}

// newClient returns a client with its own cookie jar that does not follow
// redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// signIn signs up email with client and follows the redirect, returning the
// new user.
func (a *testApp) signIn(t *testing.T, client *http.Client, email string) *domain.User {
	t.Helper()
	resp, err := client.PostForm(a.srv.URL+"/register", url.Values{
		"email":    {email},
		"password": {"password123"},
	})
	if err != nil {
		t.Fatalf("POST /register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register: expected 303, got %d", resp.StatusCode)
	}
	readBody(t, get(t, client, a.srv.URL+resp.Header.Get("Location")))

	user, err := a.db.Users().GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	return user
}

func tiramisuForm() url.Values {
	return url.Values{
		"title":       {"Tiramisù"},
		"description": {"Coffee and mascarpone dessert"},
		"time":        {"30"},
		"difficulty":  {"medium"},
		"ingredients": {"mascarpone", "coffee"},
		"steps":       {"mix", "chill"},
	}
}

// postMultipart submits a recipe form the way the browser does, with an
// optional photo.
func postMultipart(t *testing.T, client *http.Client, target string, form url.Values, image []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "dish.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(image)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, target, &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	return resp
}
