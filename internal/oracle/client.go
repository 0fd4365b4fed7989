// Package oracle wraps the external generative-model backend behind a
// narrow text-in, text-out interface. All model fallback and response
// validation live in the forecast package; this client does one completion
// call per attempt.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/retry"
)

// Generator is the capability the forecast generator consumes.
type Generator interface {
	GenerateStructuredContent(ctx context.Context, prompt, modelID string) (string, error)
}

// ClientConfig holds parameters for an OpenAI-compatible completions
// backend.
type ClientConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Client calls an OpenAI-compatible chat completions API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	policy     retry.Policy
}

// NewClient creates an oracle client. The policy governs retries of a single
// model attempt; trying the next model is the caller's decision.
func NewClient(cfg ClientConfig, policy retry.Policy) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		policy: policy,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateStructuredContent sends prompt to modelID and returns the raw
// completion text, retrying transient failures per the policy.
func (c *Client) GenerateStructuredContent(ctx context.Context, prompt, modelID string) (string, error) {
	reqBody := chatRequest{
		Model: modelID,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("oracle: marshal request: %w", err)
	}

	var content string
	err = c.policy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return retry.Permanent(fmt.Errorf("status %d: check oracle credentials", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("status %d", resp.StatusCode)
		}

		var out chatResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if out.Error != nil {
			return fmt.Errorf("upstream: %s", out.Error.Message)
		}
		if len(out.Choices) == 0 {
			return fmt.Errorf("empty choices")
		}

		content = out.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("oracle: model %s: %w", modelID, err)
	}
	return content, nil
}

var _ Generator = (*Client)(nil)
