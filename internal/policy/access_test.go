package policy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/food-tracker/auth"
)

func loggedIn(r *http.Request) *http.Request {
	s := &auth.Session{ID: "sid", UserID: 7, Username: "alice"}
	return r.WithContext(auth.WithSession(r.Context(), s))
}

func TestLoggedOutOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := LoggedOutOnly(ok)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("logged out should pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, loggedIn(httptest.NewRequest(http.MethodGet, "/login", nil)))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/tracker" {
		t.Fatalf("logged in should go to /tracker, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	req := loggedIn(httptest.NewRequest(http.MethodPost, "/signup", nil))
	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for JSON, got %d", rr.Code)
	}
}

func TestLanding(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{"logged out", httptest.NewRequest(http.MethodGet, "/", nil), "/login"},
		{"logged in", loggedIn(httptest.NewRequest(http.MethodGet, "/", nil)), "/tracker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Landing(rr, tt.req)
			if got := rr.Header().Get("Location"); got != tt.want {
				t.Fatalf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}
