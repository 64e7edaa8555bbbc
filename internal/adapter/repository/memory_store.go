package repository

import (
	"context"
	"sort"
	"sync"

	"cv-forge/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps saved CVs for the lifetime of the process.
type MemoryStore struct {
	mu  sync.RWMutex
	cvs map[uuid.UUID]domain.SavedCV
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cvs: map[uuid.UUID]domain.SavedCV{}}
}

func (s *MemoryStore) Save(_ context.Context, cv *domain.SavedCV) error {
	c := *cv
	c.Data = cv.Data.Clone()
	s.mu.Lock()
	s.cvs[cv.ID] = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.SavedCV, error) {
	s.mu.RLock()
	out := make([]domain.SavedCV, 0, len(s.cvs))
	for _, c := range s.cvs {
		c.Data = c.Data.Clone()
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*domain.SavedCV, error) {
	s.mu.RLock()
	c, ok := s.cvs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NotFound("cv", id.String())
	}
	c.Data = c.Data.Clone()
	return &c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cvs[id]; !ok {
		return domain.NotFound("cv", id.String())
	}
	delete(s.cvs, id)
	return nil
}
