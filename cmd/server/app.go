package main

import (
	"net/http"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/policy"
	"github.com/diewo77/food-tracker/internal/server"
	"gorm.io/gorm"
)

// NewApp builds the application handler: services, handlers, routes and middleware.
func NewApp(db *gorm.DB, cat *catalog.Catalog, sessions *auth.Manager) http.Handler {
	routerCfg := policy.NewRouterConfig(db, cat, sessions)
	return server.New(db, routerCfg)
}
