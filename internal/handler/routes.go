package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/service"
	"github.com/msomdec/ricettario/internal/view"
)

// Deps are the services the routes are built on.
type Deps struct {
	Auth    *service.AuthService
	Recipes *service.RecipeService
	// Blobs serves uploaded photos under /blobs/. Nil when the blob store
	// hands out its own public URLs.
	Blobs domain.BlobReader
	// Limiter throttles sign-in and sign-up per client IP. Nil disables it.
	Limiter *service.TokenBucket
	// Health is pinged by /healthz. Nil reports healthy unconditionally.
	Health        Pinger
	Backend       string
	CookieSecure  bool
	RedirectDelay time.Duration
	MaxImageBytes int64
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.CookieSecure)
	recipeHandler := NewRecipeHandler(d.Recipes, d.RedirectDelay, d.MaxImageBytes)
	apiHandler := NewRecipeAPIHandler(d.Recipes)
	healthHandler := NewHealthHandler(d.Backend, d.Health)

	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(d.Auth, h) }
	login := func(h http.HandlerFunc) http.Handler { return RequireLogin(d.Auth, h) }
	api := func(h http.HandlerFunc) http.Handler { return RequireAuth(d.Auth, h) }
	limited := func(h http.Handler) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return RateLimit(d.Limiter, h)
	}

	mux.HandleFunc("GET /healthz", healthHandler.HandleHealthz)

	// Pages.
	mux.Handle("GET /{$}", optional(recipeHandler.HandleFeed))
	mux.Handle("GET /login", optional(authHandler.HandleLoginPage))
	mux.Handle("POST /login", limited(optional(authHandler.HandleLoginSubmit)))
	mux.Handle("GET /register", optional(authHandler.HandleRegisterPage))
	mux.Handle("POST /register", limited(optional(authHandler.HandleRegisterSubmit)))
	mux.HandleFunc("POST /logout", authHandler.HandleLogoutSubmit)

	mux.Handle("GET /recipes/new", login(recipeHandler.HandleNew))
	mux.Handle("POST /recipes", login(recipeHandler.HandleCreate))
	mux.Handle("GET /recipes/{id}", optional(recipeHandler.HandleDetail))
	mux.Handle("GET /recipes/{id}/edit", login(recipeHandler.HandleEdit))
	mux.Handle("POST /recipes/{id}", login(recipeHandler.HandleUpdate))

	// Datastar list editing.
	mux.Handle("POST /recipes/lines/{list}/add", api(HandleAddLine))
	mux.Handle("POST /recipes/lines/{list}/remove/{index}", api(HandleRemoveLine))

	if d.Blobs != nil {
		blobHandler := NewBlobHandler(d.Blobs)
		mux.HandleFunc("GET /blobs/{path...}", blobHandler.HandleServe)
	}

	// JSON API.
	mux.Handle("POST /api/auth/register", limited(http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /api/auth/login", limited(http.HandlerFunc(authHandler.HandleLogin)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", api(authHandler.HandleMe))
	mux.HandleFunc("GET /api/recipes", apiHandler.HandleList)
	mux.HandleFunc("GET /api/recipes/{id}", apiHandler.HandleGet)
	mux.Handle("POST /api/recipes", api(apiHandler.HandleCreate))
	mux.Handle("PUT /api/recipes/{id}", api(apiHandler.HandleUpdate))

	mux.Handle("GET /", optional(handleNotFound))
}

// NewRouter returns the routes wrapped in the global middleware.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, d)
	return Recover(SecurityHeaders(mux))
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := newPage(w, r, "Not found")
	w.WriteHeader(http.StatusNotFound)
	view.NotFoundPage(page).Render(r.Context(), w)
}
