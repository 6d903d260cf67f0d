package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/food-tracker/auth"
	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/config"
	"github.com/diewo77/food-tracker/internal/db"
	"github.com/diewo77/food-tracker/internal/middleware"
	"github.com/joho/godotenv"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		if err := db.Prepare(dbConn, cfg.Database.DSN, true); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		return
	}

	if err := db.Prepare(dbConn, cfg.Database.DSN, cfg.App.Migrations); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	cat, err := catalog.Load(cfg.App.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load food catalog: %v", err)
	}
	log.Printf("Catalog loaded: %d foods", cat.Len())

	sessions := auth.NewManager(auth.NewMemoryStore(), cfg.App.SessionSecret)
	sessions.SecureCookie = cfg.App.SecureCookie
	middleware.SetSecureCookies(cfg.App.SecureCookie)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(dbConn, cat, sessions),
		ReadTimeout:  config.Timeout(cfg.Server.ReadTimeout),
		WriteTimeout: config.Timeout(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Timeout(cfg.Server.IdleTimeout),
	}

	go func() {
		log.Printf("Server starting on port %s (env=%s dev=%v)", cfg.Server.Port, cfg.App.Env, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
