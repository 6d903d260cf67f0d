// Package policy decides which routes each session state may reach and wires
// the handlers that serve them.
package policy

import (
	"net/http"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/httpx"
)

// LoggedInOnly lets logged-in sessions through; others go to /login (401 for JSON).
func LoggedInOnly(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// LoggedOutOnly guards the login and sign-up forms: a logged-in session is
// sent to the tracker instead.
func LoggedOutOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); ok {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusConflict, "already_logged_in", nil)
				return
			}
			http.Redirect(w, r, "/tracker", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Landing sends the visitor to the page matching their session state.
func Landing(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/tracker", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
