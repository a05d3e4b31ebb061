package table

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"nimlib/engine"
)

// Store persists nimber tables in a SQLite database keyed by rule digest.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tables (
			digest TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			rules_json TEXT NOT NULL,
			max_height INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nimbers (
			digest TEXT NOT NULL,
			height INTEGER NOT NULL,
			nimber INTEGER NOT NULL,
			PRIMARY KEY (digest, height)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save upserts a table. A re-save with a larger max height extends the
// stored nimbers; a smaller one shrinks them. Either way the stored rows
// afterwards are exactly heights 0..MaxHeight.
func (s *Store) Save(ctx context.Context, t *Table) error {
	rulesJSON, err := json.Marshal(t.Rules)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO tables(digest,name,rules_json,max_height) VALUES(?,?,?,?)`,
		t.Digest, t.Name, string(rulesJSON), int64(t.MaxHeight),
	); err != nil {
		return err
	}

	// Drop rows from any previously stored, taller table so Load never
	// returns more than MaxHeight+1 entries.
	if _, err := tx.Exec(
		`DELETE FROM nimbers WHERE digest = ? AND height > ?`,
		t.Digest, int64(t.MaxHeight),
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO nimbers(digest,height,nimber) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for h, n := range t.Nimbers {
		if _, err := stmt.Exec(t.Digest, int64(h), int64(n)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load fetches the table with the given digest, or sql.ErrNoRows.
func (s *Store) Load(ctx context.Context, digest string) (*Table, error) {
	t := &Table{Digest: digest}

	var rulesJSON string
	var maxHeight int64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, rules_json, max_height FROM tables WHERE digest = ?`, digest,
	).Scan(&t.Name, &rulesJSON, &maxHeight)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(rulesJSON), &t.Rules); err != nil {
		return nil, fmt.Errorf("stored rules for %s are corrupt: %w", digest, err)
	}
	t.MaxHeight = engine.Stack(maxHeight)

	rows, err := s.db.QueryContext(ctx,
		`SELECT height, nimber FROM nimbers WHERE digest = ? ORDER BY height`, digest)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t.Nimbers = make([]engine.Nimber, 0, maxHeight+1)
	for rows.Next() {
		var height, nimber int64
		if err := rows.Scan(&height, &nimber); err != nil {
			return nil, err
		}
		if height != int64(len(t.Nimbers)) {
			return nil, fmt.Errorf("stored nimbers for %s have a gap at height %d", digest, len(t.Nimbers))
		}
		t.Nimbers = append(t.Nimbers, engine.Nimber(nimber))
	}
	return t, rows.Err()
}

// List returns the digest, name, and max height of every stored table in
// name order.
func (s *Store) List(ctx context.Context) ([]Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT digest, name, max_height FROM tables ORDER BY name, digest`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Table
	for rows.Next() {
		var t Table
		var maxHeight int64
		if err := rows.Scan(&t.Digest, &t.Name, &maxHeight); err != nil {
			return nil, err
		}
		t.MaxHeight = engine.Stack(maxHeight)
		out = append(out, t)
	}
	return out, rows.Err()
}
