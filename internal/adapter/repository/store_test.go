package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	Save(ctx context.Context, cv *domain.SavedCV) error
	List(ctx context.Context) ([]domain.SavedCV, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SavedCV, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func savedCV(name string, at time.Time) *domain.SavedCV {
	cv := model.DefaultCV()
	cv.PersonalInfo.Name = name
	return &domain.SavedCV{ID: uuid.New(), Name: name, Date: at.UTC(), Data: cv}
}

// exerciseStore runs the behaviour every store implementation shares.
func exerciseStore(t *testing.T, s store) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	older := savedCV("Older", base)
	newer := savedCV("Newer", base.Add(time.Hour))
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Newer", list[0].Name)
	assert.Equal(t, "Older", list[1].Name)

	got, err := s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)
	assert.True(t, older.Date.Equal(got.Date))
	assert.Equal(t, older.Data, got.Data)

	older.Name = "Renamed"
	older.Data.Summary = "changed"
	require.NoError(t, s.Save(ctx, older))
	got, err = s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "changed", got.Data.Summary)

	require.NoError(t, s.Delete(ctx, newer.ID))
	_, err = s.Get(ctx, newer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, newer.ID), domain.ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	cv := savedCV("Jane", time.Now())
	require.NoError(t, s.Save(ctx, cv))

	cv.Data.Skills[0] = "mutated"
	got, err := s.Get(ctx, cv.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.Data.Skills[0])

	got.Data.Skills[0] = "mutated again"
	again, err := s.Get(ctx, cv.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated again", again.Data.Skills[0])
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cvs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cvs.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	cv := savedCV("Persisted", time.Now())
	require.NoError(t, s.Save(context.Background(), cv))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(context.Background(), cv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Name)
}
