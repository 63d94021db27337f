package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NullSubCollectionName is the reserved sub-collection that represents
// "no grouping". Every collection owns exactly one row with this name and
// it is hidden from user-facing pick lists.
const NullSubCollectionName = "- None -"

// Collection is a top-level named grouping of cards.
type Collection struct {
	ID   int64
	Name string
}

// SubCollection is an optional secondary grouping within a collection.
type SubCollection struct {
	ID           int64
	Name         string
	CollectionID int64
}

// Card is a single question/answer study unit.
type Card struct {
	ID              int64
	Question        string
	Answer          string
	Hint            string
	Skipped         bool
	SubCollectionID int64
}

// Store is the SQLite-backed persistence facade.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the default database location under the XDG state
// directory.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "cardbox", "cards.db")
}

// Open opens (creating if necessary) the card database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`INSERT OR IGNORE INTO collections (name) VALUES ('Default')`,
		`CREATE TABLE IF NOT EXISTS sub_collections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			collection_id INTEGER NOT NULL REFERENCES collections(id),
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(collection_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			collection_id INTEGER NOT NULL REFERENCES collections(id),
			hint TEXT NOT NULL DEFAULT '',
			skipped INTEGER NOT NULL DEFAULT 0,
			sub_collection_id INTEGER NOT NULL REFERENCES sub_collections(id)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS cards_uniq_collection_sub_question_answer
			ON cards(collection_id, sub_collection_id, question, answer)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	// Every collection carries the reserved null sub-collection; make sure
	// the seeded Default collection has one too.
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO sub_collections (name, collection_id)
			SELECT ?, id FROM collections`,
		NullSubCollectionName,
	)
	if err != nil {
		return fmt.Errorf("failed to seed null sub-collections: %w", err)
	}

	return nil
}

// mapUniqueConstraint converts UNIQUE violations on the cards index into a
// user-readable message; other errors pass through wrapped.
func mapUniqueConstraint(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "unique") {
		return fmt.Errorf("a card with this question and answer already exists in this sub-collection")
	}
	return err
}
