package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/diewo77/food-tracker/httpx"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionCtxKey     = ctxKey("session")
)

// UserVerifier is an optional callback to validate that a session's user still exists.
// An error means the answer is unknown; the session is kept.
type UserVerifier func(ctx context.Context, uid uint) (bool, error)

// Manager creates, resolves and destroys sessions bound to a signed cookie.
type Manager struct {
	Store  Store
	Secret []byte
	// Verifier, when set, is consulted on every request carrying a session.
	Verifier UserVerifier
	// SecureCookie marks the session cookie Secure (HTTPS only).
	SecureCookie bool
}

// NewManager returns a Manager using store and secret. An empty secret falls
// back to Secret().
func NewManager(store Store, secret string) *Manager {
	if secret == "" {
		secret = Secret()
	}
	return &Manager{Store: store, Secret: []byte(secret)}
}

// Secret returns SESSION_SECRET or default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, m.Secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Login starts a session for the user and writes the cookie.
func (m *Manager) Login(w http.ResponseWriter, userID uint, username string) (*Session, error) {
	s, err := m.Store.Create(userID, username)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID + "." + m.sign(s.ID),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Logout destroys the request's session, if any, and clears the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	if s := SessionFromContext(r.Context()); s != nil {
		m.Store.Delete(s.ID)
	} else if id, ok := m.parseCookie(r); ok {
		m.Store.Delete(id)
	}
	ClearSession(w)
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// parseCookie validates the cookie signature and returns the session id.
func (m *Manager) parseCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, found := strings.Cut(c.Value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

// Resolve returns the live session referenced by the request cookie.
// The session is only dropped when the verifier reports its user gone; a
// verifier error is returned and leaves the store untouched.
func (m *Manager) Resolve(r *http.Request) (*Session, bool, error) {
	id, ok := m.parseCookie(r)
	if !ok {
		return nil, false, nil
	}
	s, ok := m.Store.Get(id)
	if !ok {
		return nil, false, nil
	}
	if m.Verifier != nil {
		exists, err := m.Verifier(r.Context(), s.UserID)
		if err != nil {
			return nil, false, fmt.Errorf("verify session user=%d: %w", s.UserID, err)
		}
		if !exists {
			m.Store.Delete(id)
			return nil, false, nil
		}
	}
	return s, true, nil
}

// WithSession stores the session in context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// SessionFromContext returns the request's session or nil when logged out.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionCtxKey).(*Session)
	return s
}

// UserIDFromContext extracts the logged-in user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	s := SessionFromContext(ctx)
	if !s.LoggedIn() {
		return 0, false
	}
	return s.UserID, true
}

// Middleware attaches the session to the request context if present.
// A cookie that no longer maps to a live session is cleared. When the session
// cannot be checked the request fails with 500 and the session survives.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok, err := m.Resolve(r)
		switch {
		case err != nil:
			log.Printf("session: %v", err)
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
				return
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		case ok:
			r = r.WithContext(WithSession(r.Context(), s))
		default:
			if _, cerr := r.Cookie(sessionCookieName); cerr == nil {
				ClearSession(w)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
