package usecase

import (
	"context"
	"time"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"
	"cv-forge/internal/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Assistant is the set of generative flows the editor calls.
type Assistant interface {
	ImproveText(ctx context.Context, text, instruction string) (string, error)
	EnhanceCV(ctx context.Context, cv model.CV, instruction string) (model.CV, error)
	SuggestSkills(ctx context.Context, role string, existing []string, instruction string) ([]string, error)
	ExtractCV(ctx context.Context, fileName, text string) (model.CV, error)
}

// Store keeps named snapshots of CVs.
type Store interface {
	Save(ctx context.Context, cv *domain.SavedCV) error
	List(ctx context.Context) ([]domain.SavedCV, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.SavedCV, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Processor struct {
	assistant  Assistant
	reconciler *reconcile.Reconciler
	renderer   Renderer
	store      Store
	log        *zap.Logger

	renderAttempts int
	renderBackoff  time.Duration
	now            func() time.Time
}

type Option func(*Processor)

// WithReconciler replaces the default index-matching reconciler.
func WithReconciler(r *reconcile.Reconciler) Option {
	return func(p *Processor) {
		if r != nil {
			p.reconciler = r
		}
	}
}

// WithRenderRetry sets how often PDF rendering is attempted and the base
// backoff between attempts.
func WithRenderRetry(attempts int, backoff time.Duration) Option {
	return func(p *Processor) {
		if attempts > 0 {
			p.renderAttempts = attempts
		}
		p.renderBackoff = backoff
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProcessor(a Assistant, r Renderer, s Store, log *zap.Logger, opts ...Option) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Processor{
		assistant:      a,
		reconciler:     reconcile.New(),
		renderer:       r,
		store:          s,
		log:            log,
		renderAttempts: 3,
		renderBackoff:  time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is a CV together with the protected fields a rewrite tried to change.
type Result struct {
	CV             model.CV
	ModifiedFields []string
}
