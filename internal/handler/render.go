// Package handler contains the HTTP handlers. Handlers parse requests, call
// the service layer, and render templates or redirect; no business rules
// and no SQL live here.
package handler

import (
	"encoding/base64"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/auth"
)

// pages rendered by the application. Each is parsed together with base.html
// so it can fill the base template's content block.
var pageNames = []string{
	"index", "post", "make-post", "register", "login", "about", "error",
}

// Renderer holds the parsed template set, one entry per page.
//
// Templates are parsed once at startup: a malformed template fails the
// server at boot instead of on the first request that happens to hit it.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses every page template under templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes a page template. The current user (from the session
// middleware) and any pending flash notice are injected into the data map,
// so every template can show the login state and notices without each
// handler wiring them by hand.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		data["CurrentUser"] = user
	}
	if flash := popFlash(w, r); flash != "" {
		data["Flash"] = flash
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		// Headers are already sent; all we can do is log.
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// Error maps a domain error to a status code and renders the error page.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong."

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			message = "That page doesn't exist."
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			message = "You don't have permission to do that."
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			message = appErr.Message
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			message = appErr.Message
		}
	}

	if status == http.StatusInternalServerError {
		// Never leak internals (SQL, paths) to the page.
		rn.logger.Error("request failed", slog.String("error", err.Error()))
	}

	rn.Render(w, r, status, "error", map[string]any{
		"Title":   "Error",
		"Status":  status,
		"Message": message,
	})
}

// flashCookie carries a one-shot notice across a redirect. The value is
// base64-encoded: raw notice text contains spaces and punctuation that are
// not legal in a cookie value.
const flashCookie = "flash"

// setFlash queues a notice to be shown on the next rendered page.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending notice, if any.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
