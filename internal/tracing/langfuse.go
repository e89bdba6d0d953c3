// Package tracing wires optional Langfuse tracing into the eino-backed
// generation backends (Ollama, OpenAI, Gemini). Traces cover the model
// calls only; the DeepSeek HTTP backend bypasses eino and is not traced.
package tracing

import (
	"os"

	"github.com/cloudwego/eino-ext/callbacks/langfuse"
	"github.com/cloudwego/eino/callbacks"
)

// defaultHost is used when LANGFUSE_HOST is unset, matching a local
// Langfuse started with its docker-compose defaults.
const defaultHost = "http://localhost:3000"

// Setup builds the Langfuse callback handler when LANGFUSE_PUBLIC_KEY and
// LANGFUSE_SECRET_KEY are both set. The caller registers the handler with
// eino's global callbacks and must invoke the returned flush function
// before exit so buffered answer traces reach the collector. With the keys
// absent it reports false and tracing stays off; aibot never requires a
// tracing backend to run.
func Setup() (callbacks.Handler, func(), bool) {
	publicKey := os.Getenv("LANGFUSE_PUBLIC_KEY")
	secretKey := os.Getenv("LANGFUSE_SECRET_KEY")
	if publicKey == "" || secretKey == "" {
		return nil, nil, false
	}

	host := os.Getenv("LANGFUSE_HOST")
	if host == "" {
		host = defaultHost
	}

	handler, flush := langfuse.NewLangfuseHandler(&langfuse.Config{
		Host:      host,
		PublicKey: publicKey,
		SecretKey: secretKey,
	})

	return handler, flush, true
}
