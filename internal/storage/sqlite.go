package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"composelint/internal/analysis"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			hash TEXT,
			scanned_at INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS findings (
			id TEXT,
			path TEXT,
			line INTEGER,
			end_line INTEGER,
			symbol TEXT,
			rule TEXT,
			message TEXT,
			PRIMARY KEY (path, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule);`,
		`CREATE TABLE IF NOT EXISTS emitters (
			name TEXT PRIMARY KEY
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveFileFindings(ctx context.Context, path, hash string, findings []analysis.Finding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, hash, scanned_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash=excluded.hash, scanned_at=excluded.scanned_at
	`, path, hash, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}

	// Snapshot semantics: the file's previous findings are replaced wholesale.
	if _, err := tx.ExecContext(ctx, "DELETE FROM findings WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to clear findings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (id, path, line, end_line, symbol, rule, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path, id) DO UPDATE SET
			line=excluded.line,
			end_line=excluded.end_line,
			message=excluded.message
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range findings {
		id := f.ID
		if id == "" {
			id = analysis.FindingID(f)
		}
		if _, err := stmt.ExecContext(ctx, id, path, f.Line, f.EndLine, f.Symbol, f.Rule, f.Message); err != nil {
			return fmt.Errorf("failed to insert finding %s: %w", id, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) FileHash(ctx context.Context, path string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT hash FROM files WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (s *SQLiteStore) LoadFindings(ctx context.Context, rules ...string) ([]analysis.Finding, error) {
	query := "SELECT id, path, line, end_line, symbol, rule, message FROM findings"
	args := make([]any, 0, len(rules))
	if len(rules) > 0 {
		query += " WHERE rule IN (" + strings.TrimSuffix(strings.Repeat("?,", len(rules)), ",") + ")"
		for _, r := range rules {
			args = append(args, r)
		}
	}
	query += " ORDER BY path, line, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []analysis.Finding
	for rows.Next() {
		var f analysis.Finding
		if err := rows.Scan(&f.ID, &f.Path, &f.Line, &f.EndLine, &f.Symbol, &f.Rule, &f.Message); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

func (s *SQLiteStore) DeleteFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM findings WHERE path = ?", path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveEmitters replaces the stored set of project content emitters.
func (s *SQLiteStore) SaveEmitters(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM emitters"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO emitters (name) VALUES (?) ON CONFLICT(name) DO NOTHING")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadEmitters(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM emitters ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query emitters: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
