package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLSlot implements Slot on a single table, for SQLite or PostgreSQL.
type SQLSlot struct {
	db *sqlx.DB
}

// NewSQLSlot connects to the database and creates the slot table if it does
// not exist. For SQLite the parent directory of a file path is created.
func NewSQLSlot(driver, dataSourceName string) (*SQLSlot, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if dataSourceName != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dataSourceName), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer; also keeps a ":memory:" database on a single connection.
		db.SetMaxOpenConns(1)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS recipe_slots (
		slot_key TEXT PRIMARY KEY,
		slot_value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create recipe_slots table: %w", err)
	}

	return &SQLSlot{db: db}, nil
}

// Get retrieves the value stored under key.
func (s *SQLSlot) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowxContext(ctx, s.db.Rebind("SELECT slot_value FROM recipe_slots WHERE slot_key = ?"), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put writes value under key, replacing any previous value.
func (s *SQLSlot) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		s.db.Rebind("INSERT INTO recipe_slots (slot_key, slot_value) VALUES (?, ?) ON CONFLICT (slot_key) DO UPDATE SET slot_value = excluded.slot_value"),
		key,
		string(value),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLSlot) Close() error {
	return s.db.Close()
}
