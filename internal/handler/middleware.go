package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"

	"github.com/msomdec/ricettario/internal/domain"
	"github.com/msomdec/ricettario/internal/service"
)

type contextKey string

const sessionContextKey contextKey = "session"

const authCookieName = "auth_token"

// SessionFromContext returns the session resolved for the request. It is the
// anonymous session when no middleware resolved one.
func SessionFromContext(ctx context.Context) domain.Session {
	sess, _ := ctx.Value(sessionContextKey).(domain.Session)
	return sess
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	return SessionFromContext(ctx).User
}

func withSession(r *http.Request, sess domain.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))
}

func resolveSession(r *http.Request, auth *service.AuthService) domain.Session {
	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return domain.Session{}
	}
	return auth.Resolve(r.Context(), cookie.Value)
}

// OptionalAuth resolves the session behind the auth_token cookie, if any, and
// injects it into the request context. Anonymous requests proceed unchanged.
func OptionalAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, withSession(r, resolveSession(r, auth)))
	})
}

// RequireAuth protects JSON endpoints. Requests without a resolved identity
// get a 401 JSON error, or 503 if the identity backend failed.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := resolveSession(r, auth)
		if !sess.Authenticated() {
			if sess.Loading {
				writeError(w, http.StatusServiceUnavailable, "Identity service unavailable. Please try again.")
				return
			}
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}
		next.ServeHTTP(w, withSession(r, sess))
	})
}

// RequireLogin protects pages. Anonymous visitors are redirected to the
// sign-in page.
func RequireLogin(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := resolveSession(r, auth)
		if !sess.Authenticated() {
			if sess.Loading {
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, withSession(r, sess))
	})
}

// RateLimit throttles requests per client IP.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !limiter.Allow(ip) {
			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// Recover turns a panicking handler into a logged 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", v, "stack", string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
