package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/history"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/pipeline"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8000).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [slog.Default] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// MaxUploadBytes caps the total size of a multipart upload.
	// Defaults to 32 MiB if zero.
	MaxUploadBytes int64
	// History serves GET /api/history when set. Nil disables the endpoint.
	History history.Store
	// Registry receives the server's Prometheus metrics and backs GET /metrics.
	// If nil, a fresh registry is created so tests stay hermetic.
	Registry *prometheus.Registry
}

// documentQA is the interface handlers use to ingest documents and answer
// questions. *pipeline.Session satisfies it; tests inject a fake.
type documentQA interface {
	// Ingest indexes the given documents, replacing any previous corpus.
	Ingest(ctx context.Context, sources []pipeline.Source) (*pipeline.Status, error)
	// IngestURL downloads one document and indexes it.
	IngestURL(ctx context.Context, url string) (*pipeline.Status, error)
	// Answer answers a question against the indexed corpus.
	Answer(ctx context.Context, question string) (*pipeline.Answer, error)
	// PassageCount reports the size of the indexed corpus.
	PassageCount() int
}

// Server is the HTTP server that exposes the document question-answering
// pipeline.
type Server struct {
	// qa is the pipeline session behind all document and question endpoints.
	qa documentQA
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the Prometheus instruments registered for this instance.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// statusResponse is the JSON response for the document ingestion endpoints.
type statusResponse struct {
	// Status is the human-readable processing trail.
	Status string `json:"status"`
}

// askResponse is the JSON response for POST /ask_question/.
type askResponse struct {
	// Response is the sanitized answer text.
	Response string `json:"response"`
}

// errorResponse is the JSON body for 4xx/5xx responses.
type errorResponse struct {
	// Detail is the human-readable error message.
	Detail string `json:"detail"`
}

// welcomeResponse is the JSON response for GET /.
type welcomeResponse struct {
	// Message is the constant welcome payload.
	Message string `json:"message"`
}

// historyResponse is the JSON response for GET /api/history.
type historyResponse struct {
	// Entries lists the most recent answered questions, newest-first.
	Entries []historyEntry `json:"entries"`
}

// historyEntry is one answered question in a historyResponse.
type historyEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"askedAt"`
}
