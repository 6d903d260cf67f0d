package db

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/diewo77/food-tracker/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the database drivers for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationFS embed.FS

var requiredTables = []string{"users", "food_logs"}

// AutoMigrate creates or updates the schema from the gorm models.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []any{&models.User{}, &models.FoodLog{}} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations applies the embedded SQL migrations matching the dsn dialect.
func RunSQLMigrations(dsn string) error {
	dir := "migrations/sqlite"
	if IsPostgres(dsn) {
		dir = "migrations/postgres"
	}
	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, MigrateURL(dsn))
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("[DB] closing migrator: source=%v database=%v", srcErr, dbErr)
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Prepare brings the schema up to date: SQL migrations when useSQL is set,
// gorm AutoMigrate otherwise. It then checks the core tables exist.
func Prepare(conn *gorm.DB, dsn string, useSQL bool) error {
	if useSQL {
		if err := RunSQLMigrations(NormalizeDSN(dsn)); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(conn); err != nil {
		return err
	}
	for _, table := range requiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
