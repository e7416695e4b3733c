package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/web/middleware"
	"github.com/mcoot/tictactoe-go/internal/web/templates/pages"
)

// AuthHandler handles authentication pages and actions
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetPlayer(r.Context()) != nil {
		// Already logged in, redirect to home
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	render(w, r, http.StatusOK, pages.Login(pages.LoginData{
		PageData: pageData(r, "Log in"),
		Next:     r.URL.Query().Get("next"),
	}))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "Invalid form data", "", "")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	if username == "" || password == "" {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, "Username and password are required", username, next)
		return
	}

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		h.renderLogin(w, r, http.StatusUnauthorized, "Invalid username or password", username, next)
		return
	}

	setSessionCookie(w, session)
	middleware.SetFlash(w, middleware.FlashSuccess, "Welcome back, "+session.Player.DisplayName+"!")
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// SignupPage renders the registration page
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetPlayer(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	render(w, r, http.StatusOK, pages.Signup(pages.SignupData{
		PageData:    pageData(r, "Sign up"),
		FieldErrors: map[string]string{},
	}))
}

// Signup handles registration form submission
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignup(w, r, "Invalid form data", "", "", nil)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	passwordConfirm := r.FormValue("password_confirm")

	fieldErrors := make(map[string]string)
	if username == "" {
		fieldErrors["username"] = "Username is required"
	}
	if password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if password != passwordConfirm {
		fieldErrors["password_confirm"] = "Passwords do not match"
	}
	if len(fieldErrors) > 0 {
		h.renderSignup(w, r, "", username, displayName, fieldErrors)
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), username, password, displayName)
	switch {
	case errors.Is(err, auth.ErrUsernameExists):
		fieldErrors["username"] = "Username already taken"
	case errors.Is(err, auth.ErrInvalidUsername):
		fieldErrors["username"] = "Username must be 3-30 letters, digits, '-' or '_'"
	case errors.Is(err, auth.ErrPasswordTooShort):
		fieldErrors["password"] = "Password must be at least 6 characters"
	case err != nil:
		h.renderSignup(w, r, "Registration failed, please try again", username, displayName, nil)
		return
	}
	if len(fieldErrors) > 0 {
		h.renderSignup(w, r, "", username, displayName, fieldErrors)
		return
	}

	setSessionCookie(w, session)
	middleware.SetFlash(w, middleware.FlashSuccess, "Account created! Welcome, "+session.Player.DisplayName+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout revokes the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, middleware.FlashInfo, "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, errorMsg, username, next string) {
	render(w, r, status, pages.Login(pages.LoginData{
		PageData: pageData(r, "Log in"),
		Username: username,
		Next:     next,
		Error:    errorMsg,
	}))
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, errorMsg, username, displayName string, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string]string)
	}

	render(w, r, http.StatusUnprocessableEntity, pages.Signup(pages.SignupData{
		PageData:    pageData(r, "Sign up"),
		Username:    username,
		DisplayName: displayName,
		Error:       errorMsg,
		FieldErrors: fieldErrors,
	}))
}
