// Package llm implements the completion-endpoint client and the request
// pacing used by the generation pipeline.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hearth/config"
	"hearth/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 90 * time.Second
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	hc          *http.Client
	logger      *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates the completion client. The API key comes exclusively from
// the environment (LLM_APIKEY); a missing key is a setup error that aborts the
// whole run before any generation begins.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.CompletionService, error) {
	llmCfg := cfg.LLM
	if llmCfg == nil {
		return nil, errors.New("llm configuration is required")
	}
	if strings.TrimSpace(llmCfg.APIKey) == "" {
		return nil, errors.New("llm api key is required (set LLM_APIKEY)")
	}

	baseURL := llmCfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := llmCfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := llmCfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      llmCfg.APIKey,
		model:       model,
		temperature: llmCfg.Temperature,
		maxTokens:   llmCfg.MaxTokens,
		hc:          &http.Client{Timeout: timeout},
		logger:      logger,
	}, nil
}

// Complete sends one system+user exchange and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "failed to build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "completion request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read completion response")
	}

	c.logger.Debug("completion call finished",
		slog.String("model", c.model),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.Errorf("completion request failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.Wrap(err, "failed to decode completion response")
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
