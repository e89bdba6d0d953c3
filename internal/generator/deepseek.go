package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/prompt"
)

// defaultDeepSeekTimeout bounds each generation request. Remote answering
// services are the slowest dependency in the system; without a cap a hung
// backend would pin request handlers indefinitely.
const defaultDeepSeekTimeout = 60 * time.Second

// DeepSeekGenerator implements Generator against a remote document-QA
// service speaking the DeepSeek wire format: POST {base}/query with a JSON
// body of {"query": ..., "documents": ...} and a Bearer token, answering
// {"answer": ...}. Safe for concurrent use.
type DeepSeekGenerator struct {
	// baseURL is the service base URL without the trailing /query.
	baseURL string
	// apiKey is the Bearer credential sent with every request.
	apiKey string
	// client is the shared HTTP client carrying the request timeout.
	client *http.Client
}

// DeepSeekConfig holds the settings for constructing a DeepSeekGenerator.
type DeepSeekConfig struct {
	// BaseURL is the service base URL (e.g. "https://api.deepseek.example").
	BaseURL string
	// APIKey is the Bearer credential.
	APIKey string
	// Timeout bounds each request. Defaults to 60s if zero.
	Timeout time.Duration
}

// NewDeepSeekGenerator constructs a DeepSeekGenerator from the given config.
func NewDeepSeekGenerator(cfg *DeepSeekConfig) (*DeepSeekGenerator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("deepseek generator: base URL must not be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDeepSeekTimeout
	}
	return &DeepSeekGenerator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the backend label.
func (g *DeepSeekGenerator) Name() string { return "deepseek" }

// deepseekRequest is the JSON body sent to the /query endpoint. The service
// takes the question and the supporting passages as separate fields rather
// than one rendered prompt.
type deepseekRequest struct {
	Query     string `json:"query"`
	Documents string `json:"documents"`
}

// deepseekResponse is the JSON body returned from the /query endpoint.
type deepseekResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// Generate sends the prompt to the remote service and returns its answer.
// Non-2xx statuses, malformed bodies, and missing answers all map to errors.
func (g *DeepSeekGenerator) Generate(ctx context.Context, p *prompt.Prompt) (string, error) {
	payload, err := json.Marshal(deepseekRequest{
		Query:     p.Question,
		Documents: p.Context,
	})
	if err != nil {
		return "", fmt.Errorf("deepseek generator: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("deepseek generator: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek generator: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("deepseek generator: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result deepseekResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("deepseek generator: decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("deepseek generator: %s", result.Error)
	}
	if result.Answer == "" {
		return "", fmt.Errorf("deepseek generator: response contained no answer")
	}

	return result.Answer, nil
}
