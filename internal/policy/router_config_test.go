package policy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newRouterConfig(t *testing.T) (*RouterConfig, *auth.MemoryStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.FoodLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	store := auth.NewMemoryStore()
	return NewRouterConfig(db, cat, auth.NewManager(store, "policy-secret")), store
}

func TestCanceledRequestKeepsSession(t *testing.T) {
	cfg, store := newRouterConfig(t)
	u, err := cfg.UserService.Create(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec := httptest.NewRecorder()
	if _, err := cfg.Sessions.Login(rec, u.ID, u.Username); err != nil {
		t.Fatal(err)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie")
	}

	var resolvedUser uint
	h := cfg.Sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolvedUser, _ = auth.UserIDFromContext(r.Context())
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/tracker", nil).WithContext(ctx)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if store.Len() != 1 {
		t.Fatalf("aborted request must not end the session, store has %d", store.Len())
	}

	req = httptest.NewRequest(http.MethodGet, "/tracker", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if resolvedUser != u.ID {
		t.Fatalf("session should still resolve to user %d, got %d", u.ID, resolvedUser)
	}
}

func TestDeletedUserSessionDropped(t *testing.T) {
	cfg, store := newRouterConfig(t)
	rec := httptest.NewRecorder()
	if _, err := cfg.Sessions.Login(rec, 42, "ghost"); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/tracker", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if _, ok, err := cfg.Sessions.Resolve(req); ok || err != nil {
		t.Fatalf("unknown user should not resolve: ok=%v err=%v", ok, err)
	}
	if store.Len() != 0 {
		t.Fatal("session of a missing user should be removed")
	}
}
