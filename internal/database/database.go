package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SatyaPujith/Spotlight/internal/config"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/models"
)

type DB struct {
	*gorm.DB
}

// Connect opens the Postgres database and registers the metrics plugin
func Connect(cfg *config.Config) (*DB, error) {
	logLevel := gormlogger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = gormlogger.Warn
	}

	db, err := Open(postgres.Open(cfg.DatabaseURL), logLevel)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// Open wraps any GORM dialector. Tests use it with an in-memory SQLite database.
func Open(dialector gorm.Dialector, logLevel gormlogger.LogLevel) (*DB, error) {
	log := logger.GetLogger("database")

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Warnw("Failed to register metrics plugin", "error", err)
	}

	return &DB{db}, nil
}

// Migrate creates or updates the account tables
func Migrate(db *DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.SavedBusiness{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping reports whether the database answers
func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
