package usecase

import (
	"context"
	"strings"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"
	"cv-forge/pkg/ai/flows"

	"go.uber.org/zap"
)

// EnhanceCV rewrites the whole CV and reconciles the rewrite against cv so
// factual fields survive. When generation fails the returned Result still
// carries the unchanged cv alongside the error.
func (p *Processor) EnhanceCV(ctx context.Context, cv model.CV, instruction string) (Result, error) {
	original := cv.Clone()
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = flows.DefaultInstruction
	}

	candidate, err := p.assistant.EnhanceCV(ctx, original, instruction)
	if err != nil {
		p.log.Error("enhance cv failed", zap.Error(err))
		return Result{CV: original}, err
	}

	res := p.Reconcile(original, candidate, instruction)
	p.log.Info("enhance cv completed",
		zap.Bool("title_change", p.reconciler.TitleChangeRequested(instruction)),
		zap.Int("restored_fields", len(res.ModifiedFields)))
	return res, nil
}

// Reconcile applies the data-preservation policy to a candidate produced
// elsewhere.
func (p *Processor) Reconcile(original, candidate model.CV, instruction string) Result {
	modified := p.reconciler.DetectModifiedFields(original, candidate, instruction)
	if len(modified) > 0 {
		p.log.Warn("rewrite attempted to modify protected fields", zap.Strings("fields", modified))
	}
	return Result{
		CV:             p.reconciler.Reconcile(original, candidate, instruction),
		ModifiedFields: modified,
	}
}

func (p *Processor) ImproveText(ctx context.Context, text, instruction string) (string, error) {
	out, err := p.assistant.ImproveText(ctx, text, instruction)
	if err != nil {
		p.log.Error("improve text failed", zap.Error(err))
	}
	return out, err
}

func (p *Processor) SuggestSkills(ctx context.Context, role string, existing []string, instruction string) ([]string, error) {
	out, err := p.assistant.SuggestSkills(ctx, role, existing, instruction)
	if err != nil {
		p.log.Error("suggest skills failed", zap.Error(err))
	}
	return out, err
}

// ExtractCV structures uploaded CV text and normalizes the result so it can
// be edited straight away.
func (p *Processor) ExtractCV(ctx context.Context, fileName, text string) (model.CV, error) {
	if strings.TrimSpace(text) == "" {
		return model.CV{}, domain.InvalidInput("file content is empty")
	}
	cv, err := p.assistant.ExtractCV(ctx, fileName, text)
	if err != nil {
		p.log.Error("extract cv failed", zap.String("file", fileName), zap.Error(err))
		return model.CV{}, err
	}
	return Normalize(cv), nil
}
