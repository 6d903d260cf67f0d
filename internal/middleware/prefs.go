package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/diewo77/food-tracker/i18n"
)

type ctxKey string

const ctxLang ctxKey = "pref_lang"

var secureCookies bool

// SetSecureCookies marks the lang and flash cookies Secure (HTTPS only),
// matching the session cookie setting.
func SetSecureCookies(on bool) { secureCookies = on }

func prefCookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// Prefs extracts the language preference (query > cookie > Accept-Language)
// and stores it in context. A query-provided language is persisted in a cookie for ~30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if ql := r.URL.Query().Get("lang"); i18n.Supported(ql) {
			lang = ql
			http.SetCookie(w, prefCookie("lang", lang, 86400*30, false))
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		ctx := context.WithValue(r.Context(), ctxLang, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFrom returns language preference from context or fallback.
func LangFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxLang).(string); ok && v != "" {
		return v
	}
	return i18n.DefaultLang
}

// Flash stores a one-shot message shown on the next rendered page.
func Flash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, prefCookie("flash", url.QueryEscape(msg), 0, true))
}

// TakeFlash returns the pending flash message, if any, and clears it.
func TakeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie("flash")
	if err != nil || c.Value == "" {
		return ""
	}
	gone := prefCookie("flash", "", -1, true)
	gone.Expires = time.Unix(0, 0)
	http.SetCookie(w, gone)
	if dec, derr := url.QueryUnescape(c.Value); derr == nil {
		return dec
	}
	return c.Value
}
