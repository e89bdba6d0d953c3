package generator

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	einogemini "github.com/cloudwego/eino-ext/components/model/gemini"
	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"google.golang.org/genai"
)

// Backend enumerates the supported generation backends.
type Backend string

const (
	// BackendDeepSeek selects the remote document-QA service.
	BackendDeepSeek Backend = "deepseek"
	// BackendOllama selects a locally running Ollama instance.
	BackendOllama Backend = "ollama"
	// BackendOpenAI selects the OpenAI API.
	BackendOpenAI Backend = "openai"
	// BackendGemini selects Google Gemini via AI Studio.
	BackendGemini Backend = "gemini"
)

// NewFromEnv constructs a Generator by reading backend configuration from
// environment variables. GENERATOR_PROVIDER selects the backend; each
// backend uses its own native credential env vars.
//
// Environment variables:
//
//	GENERATOR_PROVIDER = deepseek | ollama | openai | gemini (default: deepseek)
//
//	DeepSeek: DEEPSEEK_API_URL, DEEPSEEK_API_KEY, GENERATION_TIMEOUT_SECONDS (default: 60)
//	Ollama:   OLLAMA_HOST (default: http://localhost:11434), OLLAMA_MODEL (default: llama3)
//	OpenAI:   OPENAI_API_KEY, OPENAI_MODEL (default: gpt-4o)
//	Gemini:   GOOGLE_API_KEY, GEMINI_MODEL (default: gemini-1.5-pro)
//
//	Shared:   MODEL_MAX_TOKENS (default: 1024), MODEL_TEMPERATURE (default: 0.2)
func NewFromEnv(ctx context.Context) (Generator, error) {
	backend := Backend(getEnvOrDefault("GENERATOR_PROVIDER", string(BackendDeepSeek)))

	switch backend {
	case BackendDeepSeek:
		return newDeepSeek()
	case BackendOllama:
		return newOllama(ctx)
	case BackendOpenAI:
		return newOpenAI(ctx)
	case BackendGemini:
		return newGemini(ctx)
	default:
		return nil, fmt.Errorf("generator: unknown backend %q — valid values: deepseek, ollama, openai, gemini", backend)
	}
}

// newDeepSeek constructs the remote document-QA backend.
// Requires DEEPSEEK_API_URL; DEEPSEEK_API_KEY is optional but expected by
// authenticated deployments.
func newDeepSeek() (Generator, error) {
	baseURL := os.Getenv("DEEPSEEK_API_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("generator: DEEPSEEK_API_URL is required for the deepseek backend")
	}
	return NewDeepSeekGenerator(&DeepSeekConfig{
		BaseURL: baseURL,
		APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		Timeout: time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 60)) * time.Second,
	})
}

// newOllama constructs a Generator backed by a local Ollama instance.
func newOllama(ctx context.Context) (Generator, error) {
	m, err := einoollama.NewChatModel(ctx, &einoollama.ChatModelConfig{
		BaseURL: getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
		Model:   getEnvOrDefault("OLLAMA_MODEL", "llama3"),
	})
	if err != nil {
		return nil, fmt.Errorf("generator: failed to create Ollama model: %w", err)
	}
	return NewChatModelGenerator(m, "ollama")
}

// newOpenAI constructs a Generator backed by the OpenAI API.
// Requires OPENAI_API_KEY.
func newOpenAI(ctx context.Context) (Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("generator: OPENAI_API_KEY is required for the openai backend")
	}
	maxTokens := getEnvInt("MODEL_MAX_TOKENS", 1024)
	temperature := getEnvFloat32("MODEL_TEMPERATURE", 0.2)
	m, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
		APIKey:      apiKey,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generator: failed to create OpenAI model: %w", err)
	}
	return NewChatModelGenerator(m, "openai")
}

// newGemini constructs a Generator backed by Google Gemini (AI Studio).
// Requires GOOGLE_API_KEY.
func newGemini(ctx context.Context) (Generator, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("generator: GOOGLE_API_KEY is required for the gemini backend")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("generator: failed to create Gemini client: %w", err)
	}
	m, err := einogemini.NewChatModel(ctx, &einogemini.Config{
		Client: client,
		Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-pro"),
	})
	if err != nil {
		return nil, fmt.Errorf("generator: failed to create Gemini model: %w", err)
	}
	return NewChatModelGenerator(m, "gemini")
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvFloat32 returns the float32 value of the named environment variable,
// or fallback if the variable is unset, empty, or not parseable.
func getEnvFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
