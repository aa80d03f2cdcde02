// Package database opens the page store and creates its schema. Local
// deployments use SQLite through mattn/go-sqlite3; remote ones use Turso
// through the libsql driver.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Config selects and tunes the database connection.
type Config struct {
	SQLitePath string

	TursoEnabled bool
	TursoURL     string
	TursoToken   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// UseTurso reports whether the remote database is configured.
func (c Config) UseTurso() bool {
	return c.TursoEnabled && c.TursoURL != "" && c.TursoToken != ""
}

// DriverAndDSN returns the database/sql driver name and data source.
func (c Config) DriverAndDSN() (string, string) {
	if c.UseTurso() {
		return "libsql", c.TursoURL + "?authToken=" + c.TursoToken
	}
	return "sqlite3", c.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
}

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, Driver: driverName}, nil
}

// Open connects according to cfg, applies pool limits and logs the outcome.
func Open(cfg Config, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()
	driver, dsn := cfg.DriverAndDSN()
	logger.Database().Debug("Creating new database connection", "driverName", driver)

	if driver == "sqlite3" {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := NewConnection(driver, dsn)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driver)
		return nil, fmt.Errorf("%s connection failed: %w", driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	duration := time.Since(start)
	logger.Database().Info("Database connection established", "driverName", driver, "duration", duration)
	return db, nil
}

// ConnectionInfo describes the connection for health output.
func (db *DB) ConnectionInfo() string {
	if db.Driver == "libsql" {
		return "Turso"
	}
	return "SQLite"
}
