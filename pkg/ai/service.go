package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cv-forge/internal/logger"

	"go.uber.org/zap"
)

// ServiceClient calls an ai-service that exposes POST /v1/chat taking
// {"agent","input"} and answering {"agent","output"}.
type ServiceClient struct {
	BaseURL  string
	HTTP     *http.Client
	Attempts int

	log    *zap.Logger
	logMax int
}

type ServiceOption func(*ServiceClient)

// WithLogger logs requests and replies, truncated to maxLen runes.
func WithLogger(log *zap.Logger, maxLen int) ServiceOption {
	return func(c *ServiceClient) {
		if log != nil {
			c.log = log
		}
		c.logMax = maxLen
	}
}

func WithHTTPClient(h *http.Client) ServiceOption {
	return func(c *ServiceClient) {
		if h != nil {
			c.HTTP = h
		}
	}
}

func NewServiceClient(baseURL string, timeout time.Duration, attempts int, opts ...ServiceOption) *ServiceClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &ServiceClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{Timeout: timeout},
		Attempts: attempts,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Agent string `json:"agent"`
	Input string `json:"input"`
}

type chatResponse struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

// statusError is a non-200 reply from the ai-service.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ai-service returned non-200 status: %d", e.code)
}

func retryableHTTP(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *ServiceClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{Agent: "auto", Input: prompt})
	if err != nil {
		return "", err
	}

	c.log.Debug("ai-service request",
		zap.String("url", c.BaseURL+"/v1/chat"),
		zap.String("input", logger.Truncate(prompt, c.logMax)))

	var respBytes []byte
	err = withRetry(ctx, c.Attempts, retryableHTTP, func() error {
		respBytes, err = c.post(ctx, "/v1/chat", body)
		if err != nil {
			c.log.Warn("ai-service call failed", zap.Error(err))
		}
		return err
	})
	if err != nil {
		return "", err
	}

	c.log.Debug("ai-service response", zap.String("body", logger.Truncate(string(respBytes), c.logMax)))

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("decode ai-service response: %w", err)
	}
	out, err := ExtractJSON(chatResp.Output)
	if err != nil {
		return "", fmt.Errorf("ai-service: %w", err)
	}
	return out, nil
}

func (c *ServiceClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return b, nil
}
