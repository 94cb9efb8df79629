package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schema matches the layout older google_dorks.db files already use, so
// existing databases open unchanged.
const schema = `
	CREATE TABLE IF NOT EXISTS dorks (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		dork     TEXT NOT NULL
	);
`

// SQLiteStore implements Store using SQLite via modernc.org/sqlite (pure Go).
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if necessary) the database at dbPath and
// initializes the schema. The parent directory is created when missing.
// Use ":memory:" for testing.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, storeErr("create directory", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeErr("open database", err)
	}
	// A single connection keeps ":memory:" databases from splitting into
	// one private database per pooled connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storeErr("ping database", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the dorks table if it does not exist.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return storeErr("create table", err)
	}
	return nil
}

// Append inserts one dork row. Duplicate pairs are allowed.
func (s *SQLiteStore) Append(ctx context.Context, category, dork string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dorks (category, dork) VALUES (?, ?)`,
		category, dork,
	)
	if err != nil {
		return storeErr("append", err)
	}
	return nil
}

// ListAll returns every stored row ordered by id.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, category, dork FROM dorks ORDER BY id`)
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Category, &e.Dork); err != nil {
			return nil, storeErr("scan row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate rows", err)
	}
	return entries, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return storeErr("close", err)
	}
	return nil
}
