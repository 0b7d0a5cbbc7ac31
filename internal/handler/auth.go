package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/service"
	"github.com/msomdec/ricettario/internal/view"
)

const authCookieMaxAge = 86400 // matches the token lifetime

// AuthHandler handles sign-up, sign-in and sign-out for pages and the JSON API.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   authCookieMaxAge,
	})
}

func (h *AuthHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// authErrorMessage maps a sign-up or sign-in failure to the inline message
// shown for its cause.
func authErrorMessage(err error) (status int, message string) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "An account with that email already exists."
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusUnprocessableEntity, "Password must be at least 6 characters."
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "Please enter a valid email address and password."
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid email or password."
	}
	return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
}

// HandleLoginPage renders the sign-in form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.LoginPage(newPage(w, r, "Sign in"), "", "").Render(r.Context(), w)
}

// HandleLoginSubmit processes the sign-in form.
// POST /login
func (h *AuthHandler) HandleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")

	token, err := h.auth.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		status, msg := authErrorMessage(err)
		if status == http.StatusInternalServerError {
			slog.Error("login user", "error", err)
		}
		page := newPage(w, r, "Sign in")
		w.WriteHeader(status)
		view.LoginPage(page, email, msg).Render(r.Context(), w)
		return
	}

	h.setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRegisterPage renders the sign-up form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.RegisterPage(newPage(w, r, "Sign up"), "", "", "").Render(r.Context(), w)
}

// HandleRegisterSubmit processes the sign-up form.
// POST /register
func (h *AuthHandler) HandleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	displayName := r.FormValue("display_name")

	_, token, err := h.auth.SignUp(r.Context(), email, displayName, r.FormValue("password"))
	if err != nil {
		status, msg := authErrorMessage(err)
		if status == http.StatusInternalServerError {
			slog.Error("register user", "error", err)
		}
		page := newPage(w, r, "Sign up")
		w.WriteHeader(status)
		view.RegisterPage(page, email, displayName, msg).Render(r.Context(), w)
		return
	}

	h.setAuthCookie(w, token)
	redirectWithFlash(w, r, "/", view.FlashSuccess, "Account created. Welcome to Ricettario!")
}

// HandleLogoutSubmit clears the auth cookie and returns to the feed.
// POST /logout
func (h *AuthHandler) HandleLogoutSubmit(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authErrorMessage(err)
		if status == http.StatusInternalServerError {
			slog.Error("login user", "error", err)
		}
		writeError(w, status, msg)
		return
	}

	userID, err := h.auth.ValidateToken(token)
	if err != nil {
		slog.Error("validate fresh token", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		slog.Error("get user after login", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	h.setAuthCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"email":"...","displayName":"...","password":"..."}
// Response: 201 {"user": {...}} with the auth cookie set
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := h.auth.SignUp(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		status, msg := authErrorMessage(err)
		if status == http.StatusInternalServerError {
			slog.Error("register user", "error", err)
		}
		writeError(w, status, msg)
		return
	}

	h.setAuthCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogout clears the auth cookie.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}
