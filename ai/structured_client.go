// Package ai integrates the generative AI backend into the analysis
// pipeline. All calls are best-effort with a hard timeout: when the backend
// is slow, down or returns garbage, the pipeline proceeds without it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"edanalyzer/internal/config"
	"edanalyzer/internal/errors"
	"edanalyzer/internal/logging"
)

// StructuredClient provides typed JSON responses from LLM calls against an
// OpenAI-compatible chat completions endpoint.
type StructuredClient[T any] struct {
	cfg  config.AIConfig
	http *http.Client
	log  *logging.Logger
}

// NewStructuredClient creates a typed client from the AI configuration
func NewStructuredClient[T any](cfg config.AIConfig) *StructuredClient[T] {
	return &StructuredClient[T]{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logging.New("StructuredClient"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GetJSONResponse sends one prompt and parses the reply into T. A single
// attempt only: failure degrades, it does not retry.
func (c *StructuredClient[T]) GetJSONResponse(ctx context.Context, prompt string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	system := c.cfg.SystemContext
	if !strings.Contains(strings.ToLower(system), "json") {
		system += "\n\nIMPORTANT: Respond with valid JSON output only."
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(errors.AIUnavailable("failed to marshal request"), err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.AIUnavailable("failed to create request"), err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.log.Debugf("sending request to %s (prompt %d bytes)", c.cfg.Model, len(prompt))
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.AIUnavailable(fmt.Sprintf("request timed out after %v", c.cfg.Timeout))
		}
		return nil, errors.Wrap(errors.AIUnavailable("request failed"), err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.AIUnavailable("failed to read response"), err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.AIUnavailable(fmt.Sprintf("backend returned status %d: %s", resp.StatusCode, truncate(string(body), 300)))
	}

	var envelope chatResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(errors.AIUnavailable("malformed response envelope"), err.Error())
	}
	if len(envelope.Choices) == 0 {
		return nil, errors.AIUnavailable("no choices in response")
	}

	content := CleanJSONContent(envelope.Choices[0].Message.Content)
	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		c.log.Debugf("unparseable content: %s", truncate(content, 300))
		return nil, errors.Wrap(errors.AIUnavailable("response content is not the expected JSON shape"), err.Error())
	}
	return &result, nil
}

// CleanJSONContent strips markdown fences and leading chatter so a JSON
// object embedded in a chatty reply still parses
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	// Trim any prose before the first brace
	if idx := strings.IndexAny(content, "{["); idx > 0 {
		content = content[idx:]
	}
	return content
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
