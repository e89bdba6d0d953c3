package rag

import (
	"context"
	"errors"
	"testing"
)

// fakeEmbedder is a test double for the Embedder interface.
type fakeEmbedder struct {
	// vector is returned for every input text.
	vector []float32
	// err, when set, is returned instead.
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

// TestRetrieve_UsesStoreOrdering verifies that the retriever passes the query
// embedding through to the store and returns its results unchanged.
func TestRetrieve_UsesStoreOrdering(t *testing.T) {
	t.Parallel()

	store := buildTestCorpus(t)
	r, err := NewRetriever(&fakeEmbedder{vector: []float32{1, 0, 0}}, store, 1)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	got, err := r.Retrieve(context.Background(), "which passage matches best?", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected defaultTopK=1 result, got %d", len(got))
	}
	if got[0].Passage.ID != 0 {
		t.Errorf("expected passage 0, got %d", got[0].Passage.ID)
	}
}

// TestRetrieve_EmbedderFailure verifies that an embedding failure is
// propagated rather than swallowed.
func TestRetrieve_EmbedderFailure(t *testing.T) {
	t.Parallel()

	store := buildTestCorpus(t)
	wantErr := errors.New("backend down")
	r, err := NewRetriever(&fakeEmbedder{err: wantErr}, store, 1)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	_, err = r.Retrieve(context.Background(), "anything", 1)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped embedder error, got %v", err)
	}
}

// TestRetrieve_EmptyIndex verifies that the empty-index sentinel survives
// the retriever's error wrapping, so the pipeline can match on it.
func TestRetrieve_EmptyIndex(t *testing.T) {
	t.Parallel()

	r, err := NewRetriever(&fakeEmbedder{vector: []float32{1, 0}}, NewMemoryStore(), 1)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	_, err = r.Retrieve(context.Background(), "anything", 1)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("err = %v, want ErrEmptyIndex", err)
	}
}

// TestNewRetriever_NilDependencies verifies constructor validation.
func TestNewRetriever_NilDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewRetriever(nil, NewMemoryStore(), 1); err == nil {
		t.Error("expected error for nil embedder")
	}
	if _, err := NewRetriever(&fakeEmbedder{}, nil, 1); err == nil {
		t.Error("expected error for nil store")
	}
}
