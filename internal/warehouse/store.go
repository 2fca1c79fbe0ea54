// Package warehouse implements the embedded demo warehouse: a SQLite file
// per demo database with schema-qualified table naming, provisioning phases,
// and ordered teardown.
package warehouse

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"samforge/internal/config"
	"samforge/internal/logging"
)

// Store is a handle to one demo database. Schemas map to table-name
// prefixes: RAW.POSITIONS lives in table RAW_POSITIONS.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	cfg    *config.Config
}

// Open initializes (or reopens) the demo database under cfg.Database.Path.
func Open(workspace string, cfg *config.Config) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	dir := filepath.Join(workspace, cfg.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create directory %s: %v", dir, err)
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, cfg.Database.Name+".db")
	logging.Store("Opening warehouse at %s", path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	// synchronous=NORMAL is safe with WAL and much faster for bulk loads
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	return &Store{db: db, dbPath: path, cfg: cfg}, nil
}

// DB exposes the underlying handle for packages that manage their own tables.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file path.
func (s *Store) Path() string { return s.dbPath }

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Table resolves a logical schema key and table name to the physical
// schema-prefixed table name, e.g. Table("raw", "BROKER_RESEARCH_RAW")
// returns "RAW_BROKER_RESEARCH_RAW".
func (s *Store) Table(schemaKey, table string) string {
	return s.cfg.SchemaName(schemaKey) + "_" + table
}

// Exec runs a statement under the store lock.
func (s *Store) Exec(query string, args ...interface{}) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Exec(query, args...)
}

// Query runs a read query.
func (s *Store) Query(query string, args ...interface{}) (*sql.Rows, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Query(query, args...)
}

// QueryRow runs a single-row read query.
func (s *Store) QueryRow(query string, args ...interface{}) *sql.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.QueryRow(query, args...)
}

// CountRows returns the row count of a physical table.
func (s *Store) CountRows(table string) (int, error) {
	var n int
	err := s.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// TablesWithPrefix lists physical tables in a schema (by prefix).
func (s *Store) TablesWithPrefix(prefix string) ([]string, error) {
	rows, err := s.Query(
		"SELECT name FROM sqlite_master WHERE type IN ('table','view') AND name LIKE ? ORDER BY name",
		prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		// sqlite-vec shadow tables carry the index name plus a suffix
		if strings.Contains(name, "_vec_") {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DropTable drops one physical table or view if it exists.
func (s *Store) DropTable(name string) error {
	var kind string
	err := s.QueryRow("SELECT type FROM sqlite_master WHERE name = ?", name).Scan(&kind)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if kind == "view" {
		_, err = s.Exec("DROP VIEW IF EXISTS " + name)
	} else {
		_, err = s.Exec("DROP TABLE IF EXISTS " + name)
	}
	return err
}
