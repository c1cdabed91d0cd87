package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const ollamaPingTimeout = 2 * time.Second

// OllamaClient is the local-model backend, talking to an Ollama server
// over its /api/generate endpoint.
type OllamaClient struct {
	baseURL string
	model   string
	httpc   *http.Client
}

func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

func (c *OllamaClient) Kind() Kind { return KindOllama }

// Available pings the server root with a short deadline. Any answer below
// 500 counts: the goal is only to avoid invoking a dead endpoint, not to
// validate the model.
func (c *OllamaClient) Available(ctx context.Context) bool {
	if c.baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, ollamaPingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

func (c *OllamaClient) Analyze(ctx context.Context, content string) (Fields, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   c.model,
		Prompt:  buildPrompt(content),
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.2},
	})
	if err != nil {
		return Fields{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return Fields{}, fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Fields{}, fmt.Errorf("ollama: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fields{}, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var gen ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return Fields{}, fmt.Errorf("ollama: decode response: %w", err)
	}

	return ParseFields(gen.Response)
}
