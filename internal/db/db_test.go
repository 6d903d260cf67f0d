package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/diewo77/food-tracker/internal/config"
	"github.com/diewo77/food-tracker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestIsPostgres(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"food_tracker.db", false},
		{"file:test?mode=memory&cache=shared", false},
		{"postgres://u:p@localhost:5432/food?sslmode=disable", true},
		{"postgresql://localhost/food", true},
		{"host=localhost user=food dbname=food", true},
	}
	for _, tt := range tests {
		if got := IsPostgres(tt.dsn); got != tt.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}

func TestNormalizeAndURL(t *testing.T) {
	kv := NormalizeDSN("  'host=db   user=food password=secret dbname=food port=5432'  ")
	if kv != "host=db user=food password=secret dbname=food port=5432 sslmode=disable" {
		t.Fatalf("NormalizeDSN = %q", kv)
	}
	u := ToURLDSN(kv)
	if u != "postgres://food:secret@db:5432/food?sslmode=disable" {
		t.Fatalf("ToURLDSN = %q", u)
	}
	if got := MigrateURL(kv); got != u {
		t.Fatalf("MigrateURL(pg) = %q", got)
	}
	if got := MigrateURL("food_tracker.db"); got != "sqlite3://food_tracker.db?_foreign_keys=1" {
		t.Fatalf("MigrateURL(sqlite) = %q", got)
	}
}

func TestMaskDSN(t *testing.T) {
	if got := MaskDSN("host=db password=secret dbname=food"); strings.Contains(got, "secret") {
		t.Fatalf("password leaked: %q", got)
	}
	if got := MaskDSN("postgres://food:secret@db:5432/food"); strings.Contains(got, "secret") {
		t.Fatalf("password leaked: %q", got)
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN("a.db"); got != "a.db?_foreign_keys=1" {
		t.Fatalf("SQLiteDSN = %q", got)
	}
	if got := SQLiteDSN("file:x?mode=memory"); got != "file:x?mode=memory&_foreign_keys=1" {
		t.Fatalf("SQLiteDSN = %q", got)
	}
}

func TestPrepareAutoMigrate(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Prepare(conn, "", false); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	// idempotent
	if err := Prepare(conn, "", false); err != nil {
		t.Fatalf("Prepare again: %v", err)
	}
}

func TestSQLMigrationsMatchModels(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "food.db")
	if err := RunSQLMigrations(dsn); err != nil {
		t.Fatalf("RunSQLMigrations: %v", err)
	}
	if err := RunSQLMigrations(dsn); err != nil {
		t.Fatalf("second run should be a no-op: %v", err)
	}
	conn, err := Connect(config.DatabaseConfig{DSN: dsn})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	u := models.User{Username: "alice", Password: "hash"}
	if err := conn.Create(&u).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	row := models.FoodLog{UserID: u.ID, FoodName: "Apple", Weight: 200, Fats: 0.4}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("insert log: %v", err)
	}
	// foreign keys are enforced
	if err := conn.Create(&models.FoodLog{UserID: u.ID + 99, FoodName: "Apple"}).Error; err == nil {
		t.Fatal("expected foreign key violation for unknown user")
	}
	for _, table := range requiredTables {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}
