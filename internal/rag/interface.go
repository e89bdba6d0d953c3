// Package rag defines the interfaces for the retrieval side of the
// question-answering pipeline: text embedding, vector storage, and passage
// retrieval. Concrete implementations (in-memory, Qdrant) satisfy these
// interfaces so the pipeline never depends on a specific backend.
package rag

import (
	"context"
	"errors"
)

// ErrEmptyIndex is returned by Search when the store holds no corpus.
// An empty index is a distinct condition, never an empty-but-successful
// result: callers must be able to tell "nothing ingested" from "nothing
// similar enough".
var ErrEmptyIndex = errors.New("rag: index is empty")

// Passage is a bounded contiguous span of document text produced by the
// chunker. Passages are immutable once created.
type Passage struct {
	// ID is the position of this passage in the corpus. IDs are assigned
	// sequentially during ingestion and double as the deterministic
	// tie-breaker when two passages score identically.
	ID int

	// Text is the passage content.
	Text string

	// Source is the originating document identifier (filename or URL).
	Source string

	// Offset orders passages within their source document.
	Offset int
}

// ScoredPassage pairs a passage with the similarity score assigned during
// retrieval. Scores are inner products over L2-normalized vectors, so they
// fall in [-1, 1] with 1 meaning identical direction.
type ScoredPassage struct {
	Passage Passage
	Score   float32
}

// Embedder is the interface for converting text into dense vector embeddings.
// The same Embedder instance must be used for passages and queries — scores
// are only meaningful within one embedding space. Returned vectors are
// L2-normalized. Implementations must be safe to call from multiple
// goroutines and must be deterministic: identical input always yields an
// identical vector.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice. A blank input text
	// is an error, never a silent zero vector.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the interface for holding one corpus of embedded passages
// and answering nearest-neighbor queries against it.
// Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Build atomically replaces the store contents with the given corpus.
	// embeddings must be parallel to passages. Callers never observe a
	// half-built corpus: on error the previous contents remain intact.
	Build(ctx context.Context, passages []Passage, embeddings [][]float32) error

	// Search returns the min(topK, corpus size) most similar passages for
	// the query embedding, ordered by descending score with ties broken by
	// ascending passage ID. Searching an empty store fails with
	// ErrEmptyIndex.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]ScoredPassage, error)

	// Count reports the number of passages currently indexed. Persistent
	// backends answer from the stored corpus, so a fresh process can learn
	// whether an earlier ingestion survives.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// Retriever is the high-level interface the pipeline uses to fetch the
// passages most relevant to a question. It combines embedding and vector
// search. Implementations must be safe to call from multiple goroutines.
type Retriever interface {
	// Retrieve returns the top-k most relevant passages for the query.
	Retrieve(ctx context.Context, query string, topK int) ([]ScoredPassage, error)
}
