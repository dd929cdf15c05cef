// Package sqlstore implements the repositories on database/sql for MySQL
// and SQLite deployments.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/Rrens/nutrisaas-chat/internal/config"
)

// Dialect selects the driver-specific SQL fragments
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// DB wraps a database/sql handle with its dialect
type DB struct {
	SQL     *sql.DB
	dialect Dialect
}

// Open connects to MySQL or SQLite according to cfg.Driver
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	var (
		dialect Dialect
		dsn     string
	)
	switch cfg.Driver {
	case config.DriverMySQL:
		dialect, dsn = DialectMySQL, cfg.DSN()
	case config.DriverSQLite:
		dialect = DialectSQLite
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", cfg.Path)
	default:
		return nil, fmt.Errorf("sqlstore does not support driver %q", cfg.Driver)
	}
	return OpenDSN(ctx, dialect, dsn, int(cfg.MaxConns))
}

// OpenDSN connects with an explicit dialect and DSN and ensures the schema
func OpenDSN(ctx context.Context, dialect Dialect, dsn string, maxConns int) (*DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// SQLite serializes writers; one connection keeps in-memory databases shared
		db.SetMaxOpenConns(1)
	} else if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialect, err)
	}

	store := &DB{SQL: db, dialect: dialect}
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database handle
func (db *DB) Close() error {
	return db.SQL.Close()
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}

func (db *DB) ensureSchema(ctx context.Context) error {
	for _, stmt := range schema(db.dialect) {
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func schema(d Dialect) []string {
	if d == DialectMySQL {
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id CHAR(36) PRIMARY KEY,
				username VARCHAR(100) NOT NULL UNIQUE,
				email VARCHAR(255) NOT NULL UNIQUE,
				role VARCHAR(20) NOT NULL DEFAULT 'member',
				created_at DATETIME(6) NOT NULL,
				updated_at DATETIME(6) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS user_information (
				user_id CHAR(36) PRIMARY KEY,
				display_name VARCHAR(100) NOT NULL DEFAULT '',
				sex VARCHAR(20) NOT NULL,
				age INT NOT NULL,
				height_cm INT NULL,
				weight_kg INT NULL,
				allergies JSON NOT NULL,
				onboarding_complete BOOLEAN NOT NULL DEFAULT FALSE,
				created_at DATETIME(6) NOT NULL,
				updated_at DATETIME(6) NOT NULL,
				INDEX idx_user_information_height (height_cm)
			)`,
			`CREATE TABLE IF NOT EXISTS chatbot_data (
				id CHAR(36) PRIMARY KEY,
				user_id CHAR(36) NOT NULL,
				question TEXT NOT NULL,
				answer TEXT NOT NULL,
				intent VARCHAR(100) NOT NULL DEFAULT '',
				confidence DOUBLE NOT NULL DEFAULT 0,
				created_at DATETIME(6) NOT NULL,
				INDEX idx_chatbot_data_user (user_id, created_at)
			)`,
		}
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL DEFAULT 'member',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_information (
			user_id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			sex TEXT NOT NULL,
			age INTEGER NOT NULL,
			height_cm INTEGER,
			weight_kg INTEGER,
			allergies TEXT NOT NULL DEFAULT '[]',
			onboarding_complete INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_information_height ON user_information (height_cm)`,
		`CREATE TABLE IF NOT EXISTS chatbot_data (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			intent TEXT NOT NULL DEFAULT '',
			confidence REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chatbot_data_user ON chatbot_data (user_id, created_at)`,
	}
}
