package generator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/prompt"
)

// ChatModelGenerator adapts any eino chat model to the Generator interface.
// This is the local-inference family: Ollama, OpenAI, and Gemini backends
// all arrive here wrapped in the same eino abstraction.
type ChatModelGenerator struct {
	// chatModel is the underlying eino model.
	chatModel model.BaseChatModel
	// name identifies the backend in logs and readiness responses.
	name string
}

// NewChatModelGenerator wraps an eino chat model as a Generator.
func NewChatModelGenerator(m model.BaseChatModel, name string) (*ChatModelGenerator, error) {
	if m == nil {
		return nil, fmt.Errorf("generator: chat model must not be nil")
	}
	return &ChatModelGenerator{chatModel: m, name: name}, nil
}

// Name returns the backend label.
func (g *ChatModelGenerator) Name() string { return g.name }

// Generate sends the rendered prompt as a single user message and returns
// the model's reply content.
func (g *ChatModelGenerator) Generate(ctx context.Context, p *prompt.Prompt) (string, error) {
	msgs := []*schema.Message{
		schema.UserMessage(p.Text),
	}

	resp, err := g.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("%s generator: generate failed: %w", g.name, err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("%s generator: model returned no content", g.name)
	}

	return resp.Content, nil
}
