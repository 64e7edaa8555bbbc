package main

import (
	"context"
	"fmt"
	"io"

	"cv-forge/internal/adapter/repository"
	"cv-forge/internal/config"
	"cv-forge/internal/infrastructure/migration"
	"cv-forge/internal/usecase"
	"cv-forge/pkg/ai"
	"cv-forge/pkg/ai/flows"
	"cv-forge/pkg/infrastructure"

	"go.uber.org/zap"
)

func newGenerator(ctx context.Context, cfg *config.Config, log *zap.Logger) (ai.Generator, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		g, err := ai.NewGeminiClient(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model, cfg.AI.Service.Retries, log, cfg.Log.MaxLength)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderService:
		return ai.NewServiceClient(cfg.AI.Service.URL, cfg.AI.Service.Timeout, cfg.AI.Service.Retries,
			ai.WithLogger(log, cfg.Log.MaxLength)), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newStore opens the configured saved-CV store. The returned closer must be
// closed on shutdown.
func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (usecase.Store, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := infrastructure.NewPool(ctx, cfg.Store.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migration.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresStore(pool), closerFunc(func() error { pool.Close(); return nil }), nil
	case config.DriverSQLite:
		s, err := repository.OpenSQLite(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.DriverMemory:
		log.Warn("using in-memory store; saved CVs are lost on restart")
		return repository.NewMemoryStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newProcessor(ctx context.Context, cfg *config.Config, log *zap.Logger) (*usecase.Processor, io.Closer, error) {
	gen, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	store, closer, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	renderer := infrastructure.NewChromedpRenderer(cfg.PDF.ChromePath, cfg.PDF.Timeout)
	return usecase.NewProcessor(flows.New(gen, log), renderer, store, log), closer, nil
}
