// Package generator defines the answer-generation interface and its
// backends. Two families share one contract: the remote document-QA service
// (DeepSeek-style HTTP API) and local-inference chat models driven through
// eino (Ollama, OpenAI, Gemini). The pipeline is agnostic to which backend
// is configured.
package generator

import (
	"context"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/prompt"
)

// Generator produces a raw answer string for an assembled prompt.
// Implementations must be safe to call from multiple goroutines, must honor
// context cancellation, and must return an error — never a partial or empty
// success — on backend failure or timeout.
type Generator interface {
	// Generate returns the raw (unsanitized) answer text for p.
	Generate(ctx context.Context, p *prompt.Prompt) (string, error)

	// Name returns a short backend label for logging and readiness checks.
	Name() string
}
