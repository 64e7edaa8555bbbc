package usecase

import (
	"context"
	"strings"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const untitledCV = "Untitled CV"

// SaveCV stores a named snapshot of cv. A blank name falls back to the
// person's name, then to "Untitled CV".
func (p *Processor) SaveCV(ctx context.Context, name string, cv model.CV) (*domain.SavedCV, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(cv.PersonalInfo.Name)
	}
	if name == "" {
		name = untitledCV
	}

	saved := &domain.SavedCV{
		ID:   uuid.New(),
		Name: name,
		Date: p.now().UTC(),
		Data: cv.Clone(),
	}
	if err := p.store.Save(ctx, saved); err != nil {
		p.log.Error("save cv failed", zap.String("id", saved.ID.String()), zap.Error(err))
		return nil, err
	}
	p.log.Info("cv saved", zap.String("id", saved.ID.String()), zap.String("name", name))
	return saved, nil
}

// ListCVs returns every saved CV, newest first.
func (p *Processor) ListCVs(ctx context.Context) ([]domain.SavedCV, error) {
	return p.store.List(ctx)
}

func (p *Processor) GetCV(ctx context.Context, id string) (*domain.SavedCV, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return p.store.Get(ctx, uid)
}

func (p *Processor) DeleteCV(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := p.store.Delete(ctx, uid); err != nil {
		return err
	}
	p.log.Info("cv deleted", zap.String("id", id))
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, domain.InvalidInput("malformed cv id %q", id)
	}
	return uid, nil
}
