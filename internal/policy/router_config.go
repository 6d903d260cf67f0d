package policy

import (
	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/handlers"
	"github.com/diewo77/food-tracker/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds configured handlers, services and the session manager.
type RouterConfig struct {
	Sessions *auth.Manager

	// Handlers
	AuthHandler    *handlers.AuthHandler
	TrackerHandler *handlers.TrackerHandler

	// Services
	UserService    *services.UserService
	FoodLogService *services.FoodLogService
	TrackerService *services.TrackerService
}

// NewRouterConfig wires services and handlers around one database, catalog and session manager.
// The manager's verifier is set so sessions of deleted users stop resolving.
func NewRouterConfig(db *gorm.DB, cat *catalog.Catalog, sessions *auth.Manager) *RouterConfig {
	users := services.NewUserService(db)
	logs := services.NewFoodLogService(db)
	tracker := services.NewTrackerService(cat, logs)

	sessions.Verifier = users.Exists

	return &RouterConfig{
		Sessions:       sessions,
		AuthHandler:    handlers.NewAuthHandler(users, sessions),
		TrackerHandler: handlers.NewTrackerHandler(tracker),
		UserService:    users,
		FoodLogService: logs,
		TrackerService: tracker,
	}
}
