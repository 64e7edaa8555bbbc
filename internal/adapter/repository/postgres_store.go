package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PostgresStore keeps saved CVs in the saved_cvs table; the CV itself is a
// JSONB column so its shape can evolve without migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// savedRow is the row_to_json shape of saved_cvs.
type savedRow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Data      model.CV  `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

func (r savedRow) toDomain() domain.SavedCV {
	return domain.SavedCV{ID: r.ID, Name: r.Name, Date: r.CreatedAt.UTC(), Data: r.Data.Clone()}
}

// queryJSON runs a SQL that returns a single json value and unmarshals it into out.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, out interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *PostgresStore) Save(ctx context.Context, cv *domain.SavedCV) error {
	data, err := json.Marshal(cv.Data)
	if err != nil {
		return fmt.Errorf("encode cv: %w", err)
	}

	_, err = s.pool.Exec(ctx, `INSERT INTO saved_cvs (id, name, data, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		cv.ID, cv.Name, data, cv.Date)
	if err != nil {
		return fmt.Errorf("upsert saved cv %s: %w", cv.ID, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.SavedCV, error) {
	var rows []savedRow
	err := queryJSON(ctx, s.pool, &rows,
		`SELECT coalesce(json_agg(row_to_json(c) ORDER BY c.created_at DESC), '[]') FROM saved_cvs c`)
	if err != nil {
		return nil, fmt.Errorf("list saved cvs: %w", err)
	}
	out := make([]domain.SavedCV, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*domain.SavedCV, error) {
	var row savedRow
	err := queryJSON(ctx, s.pool, &row, `SELECT row_to_json(c) FROM saved_cvs c WHERE c.id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("cv", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get saved cv %s: %w", id, err)
	}
	cv := row.toDomain()
	return &cv, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_cvs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved cv %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("cv", id.String())
	}
	return nil
}
