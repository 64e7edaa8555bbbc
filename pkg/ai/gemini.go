package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cv-forge/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the slice of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient asks Gemini for JSON replies.
type GeminiClient struct {
	models    contentGenerator
	modelName string
	attempts  int
	log       *zap.Logger
	logMax    int
}

// NewGeminiClient creates a client for the Gemini API backend.
func NewGeminiClient(ctx context.Context, apiKey, model string, attempts int, log *zap.Logger, logMax int) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiClient(client.Models, model, attempts, log, logMax), nil
}

func newGeminiClient(models contentGenerator, model string, attempts int, log *zap.Logger, logMax int) *GeminiClient {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiClient{models: models, modelName: model, attempts: attempts, log: log, logMax: logMax}
}

func (g *GeminiClient) Model() string { return g.modelName }

func retryableGemini(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
	}
	return false
}

func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	}

	g.log.Debug("gemini request", zap.String("model", g.modelName), zap.String("prompt", logger.Truncate(prompt, g.logMax)))

	var resp *genai.GenerateContentResponse
	err := withRetry(ctx, g.attempts, retryableGemini, func() error {
		var err error
		resp, err = g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
		if err != nil {
			g.log.Warn("gemini call failed", zap.String("model", g.modelName), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	g.log.Debug("gemini response", zap.String("output", logger.Truncate(output, g.logMax)))

	out, err := ExtractJSON(output)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return out, nil
}
