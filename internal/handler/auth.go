package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/form"
	"github.com/sakif/inkwell/internal/service"
)

// AuthHandler serves the register, login, and logout routes.
type AuthHandler struct {
	authSvc  *service.AuthService
	sessions *auth.SessionService
	render   *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(
	authSvc *service.AuthService,
	sessions *auth.SessionService,
	render *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authSvc:  authSvc,
		sessions: sessions,
		render:   render,
		logger:   logger,
	}
}

// HandleRegisterPage renders the empty registration form.
//
// HTTP: GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "register", map[string]any{
		"Title": "Register",
		"Form":  &form.RegisterForm{},
	})
}

// HandleRegister processes a registration.
//
// HTTP: POST /register
//
// An already-registered email flashes a notice and redirects to /login
// without creating anything. Success logs the new user straight in and
// redirects to the post listing.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	f := form.ParseRegister(r)
	if !f.Validate() {
		h.render.Render(w, r, http.StatusUnprocessableEntity, "register", map[string]any{
			"Title": "Register",
			"Form":  f,
		})
		return
	}

	user, err := h.authSvc.Register(r.Context(), f.Email, f.Password, f.Name)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			setFlash(w, err.Error())
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.render.Error(w, r, err)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	auth.SetCookie(w, token)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLoginPage renders the empty login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login", map[string]any{
		"Title": "Log In",
		"Form":  &form.LoginForm{},
	})
}

// HandleLogin processes a login attempt.
//
// HTTP: POST /login
//
// Unknown email and wrong password each flash their own notice and redirect
// back to /login; the two cases are reported distinctly, exactly as the
// service classifies them.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	f := form.ParseLogin(r)
	if !f.Validate() {
		h.render.Render(w, r, http.StatusUnprocessableEntity, "login", map[string]any{
			"Title": "Log In",
			"Form":  f,
		})
		return
	}

	user, err := h.authSvc.Login(r.Context(), f.Email, f.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			setFlash(w, err.Error())
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.render.Error(w, r, err)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	auth.SetCookie(w, token)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session and redirects to the listing.
//
// HTTP: GET /logout
//
// Idempotent: with no active session it just redirects.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
