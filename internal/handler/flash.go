package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/msomdec/ricettario/internal/view"
)

const flashCookieName = "flash"

// setFlash stores a notification for the next page render.
func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the pending notification, if any.
func takeFlash(w http.ResponseWriter, r *http.Request) *view.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	switch kind {
	case view.FlashInfo, view.FlashSuccess, view.FlashError:
	default:
		kind = view.FlashInfo
	}
	return &view.Flash{Kind: kind, Message: message}
}

// redirectWithFlash navigates to target and shows message there.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// newPage builds the layout data for a page, consuming any pending flash.
func newPage(w http.ResponseWriter, r *http.Request, title string) view.Page {
	return view.Page{
		Title:   title,
		Session: SessionFromContext(r.Context()),
		Flash:   takeFlash(w, r),
	}
}
