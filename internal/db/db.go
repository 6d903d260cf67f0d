package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/food-tracker/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database described by cfg, retrying postgres while it starts up.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := NormalizeDSN(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty")
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel), TranslateError: true}

	if !IsPostgres(dsn) {
		log.Printf("[DB] Using sqlite database %s", dsn)
		conn, err := gorm.Open(sqlite.Open(SQLiteDSN(dsn)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer; serialise access through one connection.
		sqlDB.SetMaxOpenConns(1)
		return conn, nil
	}

	log.Printf("[DB] Using DSN: %s", MaskDSN(dsn))
	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		log.Printf("[DB] connection attempt %d/10 failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}
