// Package pipeline orchestrates the document question-answering flow:
// ingestion (extract, chunk, embed, index) and querying (retrieve, prompt,
// generate, sanitize). A Session owns one corpus and is safe for concurrent
// use; ingestion replaces the corpus atomically.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/chunk"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/extract"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/generator"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/logging"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/prompt"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/rag"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/sanitize"
)

const (
	// DefaultDownloadTimeout bounds the HTTP GET issued by IngestURL.
	DefaultDownloadTimeout = 10 * time.Second

	// DefaultGenerationTimeout bounds a single Generate call.
	DefaultGenerationTimeout = 60 * time.Second

	// maxDownloadBytes caps the size of a document fetched by URL.
	maxDownloadBytes = 64 << 20
)

// Config holds the tunable pipeline parameters. Zero values select the
// package defaults.
type Config struct {
	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int

	// ChunkOverlap is the number of runes shared between adjacent chunks.
	ChunkOverlap int

	// TopK is the number of passages retrieved per question.
	TopK int

	// PromptMaxTokens caps the estimated token size of the rendered prompt.
	PromptMaxTokens int

	// GenerationTimeout bounds a single generation call.
	GenerationTimeout time.Duration

	// DownloadTimeout bounds the HTTP GET issued by IngestURL.
	DownloadTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = chunk.DefaultSize
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = chunk.DefaultOverlap
		if c.ChunkOverlap >= c.ChunkSize {
			c.ChunkOverlap = c.ChunkSize / 10
		}
	}
	if c.TopK <= 0 {
		c.TopK = 1
	}
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = DefaultGenerationTimeout
	}
	if c.DownloadTimeout <= 0 {
		c.DownloadTimeout = DefaultDownloadTimeout
	}
	return c
}

// Source is one document handed to Ingest.
type Source struct {
	// Name is the original filename or URL, used in status reporting and
	// passage provenance.
	Name string

	// Data is the raw document bytes.
	Data []byte
}

// Status reports the outcome of an ingestion run as a human-readable trail.
type Status struct {
	// OK reports whether ingestion succeeded and the corpus was replaced.
	OK bool

	// Headline is the one-line summary shown first.
	Headline string

	// Trail lists the processing steps in order.
	Trail []string
}

// String renders the status in the wire format returned by the upload
// endpoints: headline, then the trail joined by newlines.
func (s *Status) String() string {
	return s.Headline + "\nStatus: " + strings.Join(s.Trail, "\n")
}

// Answer is the result of a successful question.
type Answer struct {
	// Text is the sanitized answer.
	Text string

	// Supporting lists the retrieved passages behind the answer, in
	// descending similarity order.
	Supporting []rag.ScoredPassage
}

// History receives answered questions for later inspection. Implementations
// must be safe for concurrent use. Append failures are logged, never
// surfaced to the caller.
type History interface {
	Append(ctx context.Context, question, answer string) error
}

// Deps carries the collaborators a Session is built from. Embedder, Store
// and Generator are required; History and HTTP are optional. Loggers travel
// via context, see [logging.FromContext].
type Deps struct {
	Embedder  rag.Embedder
	Store     rag.VectorStore
	Generator generator.Generator
	History   History
	HTTP      *http.Client
}

// Session is the stateful core of the service: it owns the indexed corpus
// and answers questions against it. A Session starts empty; Answer fails
// with ErrNotIngested until an Ingest succeeds. Re-ingestion replaces the
// whole corpus; a failed ingestion leaves the previous corpus intact.
type Session struct {
	cfg       Config
	chunker   *chunk.Chunker
	embedder  rag.Embedder
	store     rag.VectorStore
	retriever rag.Retriever
	prompts   *prompt.Builder
	generator generator.Generator
	history   History
	http      *http.Client

	mu           sync.RWMutex
	passageCount int
}

// New constructs a Session. cfg zero values select defaults.
func New(cfg Config, deps Deps) (*Session, error) {
	if deps.Embedder == nil {
		return nil, fmt.Errorf("pipeline: embedder must not be nil")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("pipeline: store must not be nil")
	}
	if deps.Generator == nil {
		return nil, fmt.Errorf("pipeline: generator must not be nil")
	}
	cfg = cfg.withDefaults()

	chunker, err := chunk.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	retriever, err := rag.NewRetriever(deps.Embedder, deps.Store, cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	httpClient := deps.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.DownloadTimeout}
	}

	return &Session{
		cfg:       cfg,
		chunker:   chunker,
		embedder:  deps.Embedder,
		store:     deps.Store,
		retriever: retriever,
		prompts:   prompt.NewBuilder(cfg.PromptMaxTokens),
		generator: deps.Generator,
		history:   deps.History,
		http:      httpClient,
	}, nil
}

// Ready reports whether the session has an indexed corpus.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passageCount > 0
}

// PassageCount returns the number of passages in the current corpus.
func (s *Session) PassageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passageCount
}

// Close releases the underlying vector store.
func (s *Session) Close() error {
	return s.store.Close()
}

// Restore seeds the session from a store that already holds a corpus, so a
// persistent backend ingested by an earlier run keeps answering after a
// restart. With an empty (or in-memory) store it is a no-op.
func (s *Session) Restore(ctx context.Context) error {
	n, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: could not count indexed passages: %w", err)
	}

	s.mu.Lock()
	s.passageCount = n
	s.mu.Unlock()

	if n > 0 {
		logging.FromContext(ctx).Info("restored indexed corpus", "passages", n)
	}
	return nil
}

// Ingest extracts, chunks, embeds and indexes the given documents, replacing
// any previous corpus. The replacement is all-or-nothing: on any failure the
// previous corpus stays in place and the returned error carries a sentinel.
// A document that cannot be extracted is recorded in the trail and skipped;
// ingestion fails only when no document yields any text.
func (s *Session) Ingest(ctx context.Context, sources []Source) (*Status, error) {
	return s.ingest(ctx, sources, []string{"Processing uploaded files..."})
}

// IngestURL downloads a single document and ingests it. The download is
// bounded by the configured timeout; a non-2xx response fails with
// ErrDownload and the status code in the headline.
func (s *Session) IngestURL(ctx context.Context, rawURL string) (*Status, error) {
	trail := []string{"Downloading document from URL..."}

	dlCtx, cancel := context.WithTimeout(ctx, s.cfg.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &Status{Headline: "Error: Invalid URL.", Trail: trail},
			fmt.Errorf("%w: %v", ErrDownload, err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return &Status{Headline: "Error: Failed to download the document.", Trail: trail},
			fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		headline := fmt.Sprintf("Error: Failed to download (Status %d)", resp.StatusCode)
		return &Status{Headline: headline, Trail: trail},
			fmt.Errorf("%w: status %d fetching %s", ErrDownload, resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return &Status{Headline: "Error: Failed to download the document.", Trail: trail},
			fmt.Errorf("%w: reading response body: %v", ErrDownload, err)
	}
	trail = append(trail, fmt.Sprintf("Downloaded %d bytes", len(data)))

	return s.ingest(ctx, []Source{{Name: sourceNameFromURL(rawURL), Data: data}}, trail)
}

// sourceNameFromURL derives a passage source name from a document URL.
func sourceNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	if base := path.Base(u.Path); base != "" && base != "." {
		return base
	}
	return rawURL
}

func (s *Session) ingest(ctx context.Context, sources []Source, trail []string) (*Status, error) {
	start := time.Now()
	log := logging.FromContext(ctx)

	var passages []rag.Passage
	var firstExtractErr error
	stride := s.chunker.Size() - s.chunker.Overlap()
	for _, src := range sources {
		text, err := extract.Extract(src.Data, src.Name)
		if err != nil {
			log.Warn("document extraction failed", "source", src.Name, "error", err)
			trail = append(trail, fmt.Sprintf("Error reading %s: %v", src.Name, err))
			if firstExtractErr == nil {
				firstExtractErr = err
			}
			continue
		}
		chunks := s.chunker.Split(text)
		for i, c := range chunks {
			// A whitespace run longer than the chunk size yields an
			// all-blank chunk; the embedder rejects blank input, so drop
			// it here instead of failing the whole document.
			if strings.TrimSpace(c) == "" {
				continue
			}
			passages = append(passages, rag.Passage{
				ID:     len(passages),
				Text:   c,
				Source: src.Name,
				Offset: i * stride,
			})
		}
		trail = append(trail, "Processed file: "+src.Name)
	}

	if len(passages) == 0 {
		if firstExtractErr != nil {
			return &Status{Headline: fmt.Sprintf("Error reading documents: %v", firstExtractErr), Trail: trail},
				fmt.Errorf("%w: %v", ErrExtraction, firstExtractErr)
		}
		return &Status{Headline: "Error: No text found in the documents.", Trail: trail}, ErrEmptyCorpus
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		log.Error("embedding failed", "passages", len(passages), "error", err)
		return &Status{Headline: "Error: Failed to embed the documents.", Trail: trail},
			fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	s.mu.Lock()
	if err := s.store.Build(ctx, passages, embeddings); err != nil {
		s.mu.Unlock()
		log.Error("index build failed", "passages", len(passages), "error", err)
		return &Status{Headline: "Error: Failed to index the documents.", Trail: trail},
			fmt.Errorf("pipeline: index build failed: %w", err)
	}
	s.passageCount = len(passages)
	s.mu.Unlock()

	log.Info("documents ingested",
		"sources", len(sources),
		"passages", len(passages),
		"duration", time.Since(start),
	)
	trail = append(trail, "Documents processed successfully.")
	return &Status{
		OK:       true,
		Headline: "Documents processed successfully. Ask your questions!",
		Trail:    trail,
	}, nil
}

// Answer retrieves the passages most relevant to question, builds a prompt
// and asks the generation backend. It fails with ErrNotIngested when no
// corpus is indexed and with ErrGeneration when the backend fails; neither
// mutates the session, so the corpus stays valid for retry.
func (s *Session) Answer(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("pipeline: question must not be empty")
	}
	log := logging.FromContext(ctx)

	// Retrieval runs under the read lock so a concurrent re-ingestion cannot
	// swap the corpus mid-search. Generation runs unlocked.
	s.mu.RLock()
	if s.passageCount == 0 {
		s.mu.RUnlock()
		return nil, ErrNotIngested
	}
	hits, err := s.retriever.Retrieve(ctx, question, s.cfg.TopK)
	s.mu.RUnlock()
	if err != nil {
		// A persistent store can be empty even when the restored passage
		// count says otherwise, e.g. after the collection was cleared
		// externally. That is still the not-ingested condition.
		if errors.Is(err, rag.ErrEmptyIndex) {
			return nil, ErrNotIngested
		}
		return nil, fmt.Errorf("pipeline: retrieval failed: %w", err)
	}

	p := s.prompts.Build(question, hits)

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.generator.Generate(genCtx, p)
	if err != nil {
		log.Error("generation failed", "backend", s.generator.Name(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	text := sanitize.Clean(raw)

	log.Info("question answered",
		"backend", s.generator.Name(),
		"passages", len(hits),
		"duration", time.Since(start),
	)

	if s.history != nil {
		if err := s.history.Append(ctx, question, text); err != nil {
			log.Warn("history append failed", "error", err)
		}
	}

	return &Answer{Text: text, Supporting: hits}, nil
}
