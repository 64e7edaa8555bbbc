package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saved_cvs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saved_cvs_created_at ON saved_cvs(created_at);
`

// sqliteTime sorts lexically in chronological order.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore is the single-user, file-backed store.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(ctx context.Context, cv *domain.SavedCV) error {
	data, err := json.Marshal(cv.Data)
	if err != nil {
		return fmt.Errorf("encode cv: %w", err)
	}
	ts := cv.Date.UTC().Format(sqliteTime)
	_, err = s.db.ExecContext(ctx, `INSERT INTO saved_cvs (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = excluded.updated_at`,
		cv.ID.String(), cv.Name, string(data), ts, ts)
	if err != nil {
		return fmt.Errorf("upsert saved cv %s: %w", cv.ID, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.SavedCV, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, data, created_at FROM saved_cvs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list saved cvs: %w", err)
	}
	defer rows.Close()

	out := []domain.SavedCV{}
	for rows.Next() {
		cv, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cv)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*domain.SavedCV, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, data, created_at FROM saved_cvs WHERE id = ?`, id.String())
	cv, err := scanSaved(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("cv", id.String())
	}
	return cv, err
}

func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_cvs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete saved cv %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete saved cv %s: %w", id, err)
	}
	if n == 0 {
		return domain.NotFound("cv", id.String())
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSaved(sc scanner) (*domain.SavedCV, error) {
	var id, name, data, created string
	if err := sc.Scan(&id, &name, &data, &created); err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt saved cv id %q: %w", id, err)
	}
	ts, err := time.Parse(sqliteTime, created)
	if err != nil {
		return nil, fmt.Errorf("corrupt saved cv %s timestamp: %w", id, err)
	}
	var cv model.CV
	if err := json.Unmarshal([]byte(data), &cv); err != nil {
		return nil, fmt.Errorf("corrupt saved cv %s data: %w", id, err)
	}
	return &domain.SavedCV{ID: uid, Name: name, Date: ts, Data: cv.Clone()}, nil
}
