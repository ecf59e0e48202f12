package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pysugar/gato-admin/internal/db/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects and configures the database backend.
type Options struct {
	// Path is the SQLite database file (or a file: URI).
	Path string
	// DSN selects PostgreSQL when set, e.g. "host=db user=gato dbname=gato sslmode=disable".
	DSN string
	// Debug logs every SQL statement.
	Debug bool
}

// InitDB opens the database and runs migrations.
func InitDB(opts Options) (*gorm.DB, error) {
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		log.Printf("🐘 Using PostgreSQL store")
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("database path is required")
		}
		db, err = gorm.Open(sqlite.Open(opts.Path), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %q: %w", opts.Path, err)
		}
		// SQLite allows one writer; a single connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		log.Printf("🗄️  Using SQLite store at %s", opts.Path)
	}

	if err := db.AutoMigrate(&models.ModelConfig{}, &models.RequestLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}
