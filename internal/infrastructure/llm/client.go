// Package llm talks to an OpenAI-compatible inference endpoint for both
// chat completions and text embeddings.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls an OpenAI-compatible endpoint.
type Client struct {
	httpClient *http.Client
	cfg        config.LLMConfig
	logger     logging.Logger
}

// NewClient builds a Client; the endpoint is not contacted until the
// first request.
func NewClient(cfg config.LLMConfig, log logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "llm base_url not configured")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     log,
	}, nil
}

// Complete sends a chat completion request and returns the first choice.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New(errors.ErrCodeValidation, "no messages to send")
	}

	req := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	start := time.Now()
	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrCodeLLMRequestFailed, "llm returned no choices")
	}

	c.logger.Debug("chat completion finished",
		logging.String("model", c.cfg.Model),
		logging.Int("prompt_tokens", resp.Usage.PromptTokens),
		logging.Int("completion_tokens", resp.Usage.CompletionTokens),
		logging.Duration("elapsed", time.Since(start)),
	)
	return resp.Choices[0].Message.Content, nil
}

// Embed returns one embedding per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := embeddingRequest{Model: c.cfg.EmbedModel, Input: texts}
	var resp embeddingResponse
	if err := c.post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "embedding count does not match input count")
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, errors.New(errors.ErrCodeEmbeddingFailed, "embedding index out of range")
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode llm request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeLLMRequestFailed, "failed to build llm request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeLLMRequestFailed, "llm request failed")
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 10<<20))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeLLMRequestFailed, "failed to read llm response")
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		msg := httpResp.Status
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return errors.New(errors.ErrCodeLLMRequestFailed, "llm endpoint returned error: "+msg)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode llm response")
	}
	return nil
}
