// Package database opens the SQL store behind the server and runs its
// transactions and migrations.
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names. They double as database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds pool settings. SQLite ignores them.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect opens and pings the database.
//
// SQLite is limited to one connection, which serializes transactions, and
// always runs with foreign keys on so deleting a document removes its shares.
func Connect(cfg Config) (*sql.DB, error) {
	dsn := cfg.ConnectionString
	maxOpen, maxIdle, lifetime := cfg.MaxOpenConnections, cfg.MaxIdleConnections, cfg.ConnMaxLifetime
	if cfg.Driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
		maxOpen, maxIdle, lifetime = 1, 1, 0
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// sqliteDSN turns on foreign keys unless the DSN already sets them.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
