package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/i18n"
)

//go:embed templates
var embedded embed.FS

var (
	fsMu     sync.RWMutex
	tplFS    fs.FS = mustSub(embedded, "templates")
	devMode        = os.Getenv("DEV") == "1"
	tplCache       = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver = func(_ *http.Request) string { return i18n.DefaultLang }
)

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// SetLangResolver allows the host app to provide a custom language resolver (e.g., reading from context).
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetBaseDir serves templates from path on disk instead of the embedded copy
// (useful while editing templates). Caches are reset.
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	fsMu.Lock()
	tplFS = os.DirFS(path)
	fsMu.Unlock()
	ResetForTests()
}

// ResetForTests clears the template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := langResolver(r)
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"year": func() int { return time.Now().Year() },
		"num":  FormatNumber,
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// FormatNumber renders v with at most two decimals and no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(roundTo(v, 2), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	s := strconv.FormatFloat(v, 'f', places, 64)
	out, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return out
}

func parse(r *http.Request, name string) (*template.Template, error) {
	fsMu.RLock()
	fsys := tplFS
	fsMu.RUnlock()
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	funcMap := Funcs(r)
	if bytes.Contains(bytes.ToLower(content), []byte("<!doctype")) {
		// Full document provided; skip layout wrapping.
		return template.New(name).Funcs(funcMap).ParseFS(fsys, name)
	}
	files := []string{"layout.html", name}
	if partials, _ := fs.Glob(fsys, "partials/*.html"); len(partials) > 0 {
		files = append(files, partials...)
	}
	return template.New("layout.html").Funcs(funcMap).ParseFS(fsys, files...)
}

// Render parses and executes a single template file with shared funcs.
// name should be the filename (e.g., "tracker.html"). Output is buffered so a
// failing template never leaves a half-written page.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	// Ensure data map exists and inject common defaults to avoid template errors.
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["Violations"]; !exists {
		data["Violations"] = map[string]string{}
	}
	if _, exists := data["Form"]; !exists {
		data["Form"] = map[string]string{}
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		s := auth.SessionFromContext(r.Context())
		data["IsLoggedIn"] = s.LoggedIn()
		if s.LoggedIn() {
			data["Username"] = s.Username
		}
	}
	key := langResolver(r) + "/" + name
	var t *template.Template
	if !devMode {
		tplCache.RLock()
		t = tplCache.m[key]
		tplCache.RUnlock()
	}
	if t == nil {
		parsed, err := parse(r, name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		t = parsed
		if !devMode {
			tplCache.Lock()
			tplCache.m[key] = t
			tplCache.Unlock()
		}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
