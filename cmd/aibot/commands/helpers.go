package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/embedder"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/generator"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/pipeline"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/rag"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/server"
)

// buildStore constructs the vector store selected by INDEX_BACKEND:
// "memory" (default) or "qdrant". The returned qdrant store is non-nil only
// for the qdrant backend, so callers can wire a readiness probe.
func buildStore(ctx context.Context, log *slog.Logger) (rag.VectorStore, *rag.QdrantStore, error) {
	backend := getEnvOrDefault("INDEX_BACKEND", "memory")
	switch backend {
	case "memory":
		return rag.NewMemoryStore(), nil, nil
	case "qdrant":
		host := getEnvOrDefault("QDRANT_HOST", "localhost")
		port := getEnvInt("QDRANT_PORT", 6334)
		collection := getEnvOrDefault("QDRANT_COLLECTION", "aibot-docs")
		embBackend := getEnvOrDefault("EMBEDDING_PROVIDER", "local")
		vectorSize := uint64(embedder.DefaultDimensions(embBackend)) //nolint:gosec // dimensions are bounded

		qs, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
			Host:       host,
			Port:       port,
			Collection: collection,
			VectorSize: vectorSize,
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			UseTLS:     os.Getenv("QDRANT_TLS") == "true",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Qdrant at %s:%d: %w", host, port, err)
		}
		log.Info("qdrant store ready",
			slog.String("host", host),
			slog.Int("port", port),
			slog.String("collection", collection),
		)
		return qs, qs, nil
	default:
		return nil, nil, fmt.Errorf("unknown INDEX_BACKEND %q — valid values: memory, qdrant", backend)
	}
}

// buildSession constructs the full question-answering pipeline from the
// environment: embedder, vector store, generation backend, and tuning knobs.
// The returned qdrant store is nil unless INDEX_BACKEND=qdrant.
func buildSession(ctx context.Context, log *slog.Logger, hist pipeline.History) (*pipeline.Session, *rag.QdrantStore, error) {
	if err := embedder.Validate(log); err != nil {
		return nil, nil, err
	}
	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise embedder: %w", err)
	}
	log.Info("embedder initialised", slog.String("provider", getEnvOrDefault("EMBEDDING_PROVIDER", "local")))

	store, qdrantStore, err := buildStore(ctx, log)
	if err != nil {
		return nil, nil, err
	}

	gen, err := generator.NewFromEnv(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to initialise generation backend: %w", err)
	}
	log.Info("generation backend initialised", slog.String("backend", gen.Name()))

	session, err := pipeline.New(pipeline.Config{
		ChunkSize:       getEnvInt("CHUNK_SIZE", 0),
		ChunkOverlap:    getEnvInt("CHUNK_OVERLAP", 0),
		TopK:            getEnvInt("RETRIEVAL_TOP_K", 0),
		PromptMaxTokens: getEnvInt("PROMPT_MAX_TOKENS", 0),
	}, pipeline.Deps{
		Embedder:  emb,
		Store:     store,
		Generator: gen,
		History:   hist,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	// A persistent index keeps its corpus across runs; pick it up so a
	// fresh `aibot serve` answers against what `aibot ingest` stored.
	if err := session.Restore(ctx); err != nil {
		_ = session.Close()
		return nil, nil, err
	}

	return session, qdrantStore, nil
}

// buildPingers assembles the readiness probes for the configured backends.
func buildPingers(qdrantStore *rag.QdrantStore) []server.Pinger {
	var pingers []server.Pinger

	switch getEnvOrDefault("GENERATOR_PROVIDER", "deepseek") {
	case "deepseek":
		if url := os.Getenv("DEEPSEEK_API_URL"); url != "" {
			pingers = append(pingers, server.NewHTTPPinger(url, "deepseek"))
		}
	case "ollama":
		pingers = append(pingers, server.NewHTTPPinger(getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"), "ollama"))
	}

	if getEnvOrDefault("EMBEDDING_PROVIDER", "local") == "ollama" {
		pingers = append(pingers, server.NewHTTPPinger(getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"), "ollama-embeddings"))
	}

	if qdrantStore != nil {
		pingers = append(pingers, server.NewQdrantPinger(qdrantStore.Client()))
	}

	return pingers
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
