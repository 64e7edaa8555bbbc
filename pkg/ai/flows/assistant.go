// Package flows holds the prompt flows behind the CV editor's AI buttons.
// Each flow builds a prompt, asks the Generator for JSON and checks the
// reply before handing it back.
package flows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"
	"cv-forge/pkg/ai"

	"go.uber.org/zap"
)

// DefaultInstruction is used when a full-CV rewrite is requested without one.
const DefaultInstruction = "Improve the overall quality, impact, and professionalism of this CV content while maintaining factual accuracy."

type Assistant struct {
	gen ai.Generator
	log *zap.Logger
}

func New(gen ai.Generator, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{gen: gen, log: log}
}

// generate runs prompt and unmarshals the reply into out.
func (a *Assistant) generate(ctx context.Context, flow, prompt string, out interface{}) (json.RawMessage, error) {
	raw, err := a.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		a.log.Warn("ai flow failed", zap.String("flow", flow), zap.Error(err))
		if errors.Is(err, ai.ErrNoJSON) {
			return nil, fmt.Errorf("%s: %w: %w", flow, domain.ErrAIOutput, err)
		}
		return nil, fmt.Errorf("%s: %w: %w", flow, domain.ErrAIUnavailable, err)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", flow, domain.ErrAIOutput, err)
		}
	}
	return json.RawMessage(raw), nil
}

// decodeCV pulls the CV out of a reply that either is the CV or wraps it
// under key, and checks it against the CV schema.
func decodeCV(flow string, raw json.RawMessage, key string) (model.CV, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return model.CV{}, fmt.Errorf("%s: %w: %w", flow, domain.ErrAIOutput, err)
	}
	if inner, ok := wrapper[key]; ok {
		raw = inner
	}
	cv, err := model.Decode(raw)
	if err != nil {
		return model.CV{}, fmt.Errorf("%s: %w: %w", flow, domain.ErrAIOutput, err)
	}
	return cv, nil
}

func mustJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
