package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/models"
	"github.com/diewo77/food-tracker/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	users    *services.UserService
	sessions *auth.Manager
	tracker  *services.TrackerService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
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
	users := services.NewUserService(db)
	users.HashCost = bcrypt.MinCost
	return &fixture{
		db:       db,
		users:    users,
		sessions: auth.NewManager(auth.NewMemoryStore(), "handler-secret"),
		tracker:  services.NewTrackerService(cat, services.NewFoodLogService(db)),
	}
}

func form(method, target string, values url.Values) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func asUser(r *http.Request, id uint, name string) *http.Request {
	return r.WithContext(auth.WithSession(r.Context(), &auth.Session{ID: "test", UserID: id, Username: name}))
}

func (f *fixture) mustUser(t *testing.T, name, pass string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), name, pass)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return u
}
