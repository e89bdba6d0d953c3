package rag

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore implements VectorStore with a brute-force inner-product scan
// over an in-memory corpus. It is the default backend: the corpus lives for
// the duration of the process and is replaced wholesale on each ingestion.
// Safe for concurrent use.
type MemoryStore struct {
	// mu guards passages and vectors. Build takes the write lock so a swap
	// is never observable half-done; Search takes the read lock.
	mu sync.RWMutex

	// passages is the current corpus, parallel to vectors.
	passages []Passage

	// vectors holds the L2-normalized embedding for each passage.
	vectors [][]float32
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Build atomically replaces the store contents. All inputs are validated
// before the swap, so a dimension mismatch leaves the previous corpus intact.
func (s *MemoryStore) Build(_ context.Context, passages []Passage, embeddings [][]float32) error {
	if len(passages) != len(embeddings) {
		return fmt.Errorf("memory store: %d passages but %d embeddings", len(passages), len(embeddings))
	}
	if len(passages) == 0 {
		return fmt.Errorf("memory store: refusing to build an empty corpus")
	}

	dim := len(embeddings[0])
	for i, v := range embeddings {
		if len(v) != dim {
			return fmt.Errorf("memory store: embedding %d has dimension %d, want %d", i, len(v), dim)
		}
	}

	// Copy so later mutation of the caller's slices cannot corrupt the corpus.
	ps := make([]Passage, len(passages))
	copy(ps, passages)
	vs := make([][]float32, len(embeddings))
	copy(vs, embeddings)

	s.mu.Lock()
	s.passages = ps
	s.vectors = vs
	s.mu.Unlock()

	return nil
}

// Search scores every passage against the query embedding and returns the
// top-k by descending score, ties broken by ascending passage ID. An empty
// store fails with ErrEmptyIndex.
func (s *MemoryStore) Search(_ context.Context, queryEmbedding []float32, topK int) ([]ScoredPassage, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("memory store: topK must be positive, got %d", topK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.passages) == 0 {
		return nil, ErrEmptyIndex
	}

	scored := make([]ScoredPassage, len(s.passages))
	for i := range s.passages {
		scored[i] = ScoredPassage{
			Passage: s.passages[i],
			Score:   dot(s.vectors[i], queryEmbedding),
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Passage.ID < scored[j].Passage.ID
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}

// Count reports the number of passages in the current corpus.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// dot computes the inner product of a and b. Vectors are L2-normalized by
// the embedder, so this equals cosine similarity. A shorter b is treated as
// zero-padded rather than panicking on a dimension mismatch.
func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
