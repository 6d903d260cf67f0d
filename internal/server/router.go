package server

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/diewo77/food-tracker/httpx"
	"github.com/diewo77/food-tracker/internal/middleware"
	"github.com/diewo77/food-tracker/internal/policy"
	"github.com/diewo77/food-tracker/view"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg *policy.RouterConfig) http.Handler {
	mux := http.NewServeMux()
	view.SetLangResolver(middleware.LangFrom)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /{$}", policy.Landing)

	// Logged out
	ah := cfg.AuthHandler
	mux.Handle("GET /login", policy.LoggedOutOnly(http.HandlerFunc(ah.Login)))
	mux.Handle("POST /login", policy.LoggedOutOnly(http.HandlerFunc(ah.Login)))
	mux.Handle("GET /signup", policy.LoggedOutOnly(http.HandlerFunc(ah.Signup)))
	mux.Handle("POST /signup", policy.LoggedOutOnly(http.HandlerFunc(ah.Signup)))

	// Logged in
	th := cfg.TrackerHandler
	mux.Handle("GET /tracker", policy.LoggedInOnly(http.HandlerFunc(th.Show)))
	mux.Handle("POST /tracker/foods", policy.LoggedInOnly(http.HandlerFunc(th.AddFood)))
	mux.HandleFunc("POST /logout", ah.Logout)

	return withLogging(withRecover(cfg.Sessions.Middleware(middleware.Prefs(mux))))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
