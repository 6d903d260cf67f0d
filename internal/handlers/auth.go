package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/httpx"
	"github.com/diewo77/food-tracker/internal/middleware"
	"github.com/diewo77/food-tracker/internal/services"
	"github.com/diewo77/food-tracker/validation"
)

// bcrypt ignores anything past 72 bytes, so longer passwords are refused.
const maxPasswordLen = 72

// AuthHandler drives the logged-out side of the session: sign-up, login and logout.
type AuthHandler struct {
	Users    *services.UserService
	Sessions *auth.Manager
}

func NewAuthHandler(users *services.UserService, sessions *auth.Manager) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions}
}

type credentials struct {
	Username string
	Password string
}

func readCredentials(r *http.Request) (credentials, validation.Violations, error) {
	if err := r.ParseForm(); err != nil {
		return credentials{}, nil, err
	}
	c := credentials{Username: strings.TrimSpace(r.FormValue("username")), Password: r.FormValue("password")}
	v := validation.Violations{}
	validation.Required("username", c.Username, v)
	validation.MaxLen("username", c.Username, 255, v)
	validation.Required("password", c.Password, v)
	validation.MaxLen("password", c.Password, maxPasswordLen, v)
	return c, v, nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if r.URL.Query().Get("mode") == "signup" {
			renderTemplate(w, r, "signup", map[string]any{"Mode": "signup"})
			return
		}
		renderTemplate(w, r, "login", map[string]any{"Mode": "login", "Flash": middleware.TakeFlash(w, r)})
		return
	}
	c, v, err := readCredentials(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	if !v.Empty() {
		h.loginFailed(w, r, c, v, http.StatusUnprocessableEntity)
		return
	}
	uid, ok, err := h.Users.Authenticate(r.Context(), c.Username, c.Password)
	if err != nil {
		log.Printf("login %q: %v", c.Username, err)
		h.internalError(w, r, "login")
		return
	}
	if !ok {
		h.loginFailed(w, r, c, nil, http.StatusUnauthorized)
		return
	}
	s, err := h.Sessions.Login(w, uid, c.Username)
	if err != nil {
		log.Printf("login %q: %v", c.Username, err)
		h.internalError(w, r, "login")
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"user_id": s.UserID, "username": s.Username})
		return
	}
	middleware.Flash(w, fmt.Sprintf(tr(r, "welcome"), c.Username))
	http.Redirect(w, r, "/tracker", http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, c credentials, v validation.Violations, status int) {
	if httpx.WantsJSON(r) {
		if v == nil {
			httpx.JSONError(w, status, "invalid_credentials", nil)
		} else {
			httpx.JSONError(w, status, "invalid_form", v)
		}
		return
	}
	data := map[string]any{"Mode": "login", "Form": map[string]string{"Username": c.Username}}
	if v == nil {
		data["Error"] = tr(r, "invalid_credentials")
	} else {
		data["Violations"] = v
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	renderTemplate(w, r, "login", data)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "signup", map[string]any{"Mode": "signup"})
		return
	}
	c, v, err := readCredentials(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	if !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_form", v)
			return
		}
		renderTemplate(w, r, "signup", map[string]any{"Mode": "signup", "Violations": v, "Form": map[string]string{"Username": c.Username}})
		return
	}
	user, err := h.Users.Create(r.Context(), c.Username, c.Password)
	if errors.Is(err, services.ErrDuplicateUsername) {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusConflict, err.Error(), nil)
			return
		}
		renderTemplate(w, r, "signup", map[string]any{"Mode": "signup", "Error": tr(r, err.Error()), "Form": map[string]string{"Username": c.Username}})
		return
	}
	if err != nil {
		log.Printf("signup %q: %v", c.Username, err)
		h.internalError(w, r, "signup")
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]any{"user_id": user.ID, "username": user.Username})
		return
	}
	// Sign-up does not log in; the user goes through the login form.
	middleware.Flash(w, tr(r, "account_created"))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(w, r)
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) internalError(w http.ResponseWriter, r *http.Request, page string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	renderTemplate(w, r, page, map[string]any{"Mode": page, "Error": tr(r, "internal_error")})
}
