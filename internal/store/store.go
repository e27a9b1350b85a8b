package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the declaration index.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id                  INTEGER PRIMARY KEY,
  path                TEXT NOT NULL UNIQUE,
  hash                TEXT,
  is_declaration_file BOOLEAN DEFAULT FALSE,
  line_count          INTEGER,
  last_indexed        TIMESTAMP
);

CREATE TABLE IF NOT EXISTS declarations (
  id                    INTEGER PRIMARY KEY,
  file_id               INTEGER NOT NULL REFERENCES files(id),
  name                  TEXT NOT NULL,
  kind                  TEXT NOT NULL,
  modifiers             TEXT,
  flags                 INTEGER DEFAULT 0,
  is_ambient            BOOLEAN DEFAULT FALSE,
  is_exported           BOOLEAN DEFAULT FALSE,
  fqn                   TEXT,
  declared_type         TEXT,
  signature_hash        TEXT,
  start_line            INTEGER,
  start_col             INTEGER,
  end_line              INTEGER,
  end_col               INTEGER,
  parent_declaration_id INTEGER REFERENCES declarations(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE INDEX IF NOT EXISTS idx_declarations_file ON declarations(file_id);
CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name);
CREATE INDEX IF NOT EXISTS idx_declarations_kind ON declarations(kind);
CREATE INDEX IF NOT EXISTS idx_declarations_parent ON declarations(parent_declaration_id);
CREATE INDEX IF NOT EXISTS idx_declarations_ambient ON declarations(is_ambient);
`

// DeleteFileData transactionally removes the declarations of a file and
// the file row itself. Children are deleted before parents to respect the
// parent_declaration_id foreign key.
func (s *Store) DeleteFileData(fileID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE declarations SET parent_declaration_id = NULL WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("store: detach declarations: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM declarations WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("store: delete declarations: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE id = ?", fileID); err != nil {
		return fmt.Errorf("store: delete file: %w", err)
	}
	return tx.Commit()
}

// PruneFiles deletes every file (and its declarations) whose path is not in
// keep. Returns the number of files removed.
func (s *Store) PruneFiles(keep []string) (int, error) {
	query := "SELECT id FROM files"
	args := make([]any, 0, len(keep))
	if len(keep) > 0 {
		query += " WHERE path NOT IN (" + placeholderList(len(keep)) + ")"
		for _, p := range keep {
			args = append(args, p)
		}
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return 0, fmt.Errorf("store: prune files: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("store: scan file id: %w", err)
		}
		stale = append(stale, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("store: prune files: %w", err)
	}
	for _, id := range stale {
		if err := s.DeleteFileData(id); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}
