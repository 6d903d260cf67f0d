package handlers

import (
	"log"
	"net/http"

	"github.com/diewo77/food-tracker/i18n"
	"github.com/diewo77/food-tracker/internal/middleware"
	"github.com/diewo77/food-tracker/view"
)

// render uses the shared view.Render to ensure layout, partials, funcs, and caching.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		log.Printf("render %s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template error"))
	}
}

// tr translates code in the request's language.
func tr(r *http.Request, code string) string {
	return i18n.T(middleware.LangFrom(r), code)
}
