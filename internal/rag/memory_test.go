package rag

import (
	"context"
	"errors"
	"testing"
)

// buildTestCorpus populates a MemoryStore with three passages whose vectors
// have a known similarity ranking against the unit query vector (1, 0, 0):
// p0 scores 1.0, p1 scores ~0.6, p2 scores 0.0.
func buildTestCorpus(t *testing.T) *MemoryStore {
	t.Helper()

	s := NewMemoryStore()
	passages := []Passage{
		{ID: 0, Text: "best match", Source: "doc", Offset: 0},
		{ID: 1, Text: "middle match", Source: "doc", Offset: 1},
		{ID: 2, Text: "orthogonal", Source: "doc", Offset: 2},
	}
	embeddings := [][]float32{
		{1, 0, 0},
		{0.6, 0.8, 0},
		{0, 0, 1},
	}
	if err := s.Build(context.Background(), passages, embeddings); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

// TestMemoryStoreSearch_TopOne verifies that k=1 returns only the single
// highest-similarity passage.
func TestMemoryStoreSearch_TopOne(t *testing.T) {
	t.Parallel()

	s := buildTestCorpus(t)
	got, err := s.Search(context.Background(), []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Passage.ID != 0 {
		t.Errorf("expected passage 0, got %d", got[0].Passage.ID)
	}
	if got[0].Score < 0.99 {
		t.Errorf("expected score ~1.0, got %f", got[0].Score)
	}
}

// TestMemoryStoreSearch_DescendingOrder verifies that k=3 returns all three
// passages in descending score order.
func TestMemoryStoreSearch_DescendingOrder(t *testing.T) {
	t.Parallel()

	s := buildTestCorpus(t)
	got, err := s.Search(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i, wantID := range []int{0, 1, 2} {
		if got[i].Passage.ID != wantID {
			t.Errorf("position %d: expected passage %d, got %d", i, wantID, got[i].Passage.ID)
		}
	}
	if !(got[0].Score > got[1].Score && got[1].Score > got[2].Score) {
		t.Errorf("scores not strictly descending: %f, %f, %f", got[0].Score, got[1].Score, got[2].Score)
	}
}

// TestMemoryStoreSearch_TieBreak verifies that equal-score passages are
// returned in ascending ID order.
func TestMemoryStoreSearch_TieBreak(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	passages := []Passage{
		{ID: 7, Text: "second"},
		{ID: 3, Text: "first"},
	}
	embeddings := [][]float32{
		{1, 0},
		{1, 0},
	}
	if err := s.Build(context.Background(), passages, embeddings); err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := s.Search(context.Background(), []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got[0].Passage.ID != 3 || got[1].Passage.ID != 7 {
		t.Errorf("tie-break order wrong: got IDs %d, %d", got[0].Passage.ID, got[1].Passage.ID)
	}
}

// TestMemoryStoreSearch_KLargerThanCorpus verifies that k beyond the corpus
// size returns the whole corpus rather than erroring.
func TestMemoryStoreSearch_KLargerThanCorpus(t *testing.T) {
	t.Parallel()

	s := buildTestCorpus(t)
	got, err := s.Search(context.Background(), []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 results, got %d", len(got))
	}
}

// TestMemoryStoreBuild_Replace verifies that a second Build fully replaces
// the previous corpus.
func TestMemoryStoreBuild_Replace(t *testing.T) {
	t.Parallel()

	s := buildTestCorpus(t)

	replacement := []Passage{{ID: 0, Text: "only passage"}}
	if err := s.Build(context.Background(), replacement, [][]float32{{0, 1, 0}}); err != nil {
		t.Fatalf("second Build: %v", err)
	}

	got, err := s.Search(context.Background(), []float32{0, 1, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result after replace, got %d", len(got))
	}
	if got[0].Passage.Text != "only passage" {
		t.Errorf("expected replacement passage, got %q", got[0].Passage.Text)
	}
}

// TestMemoryStoreBuild_RejectsMismatch verifies that validation failures
// leave the previous corpus intact.
func TestMemoryStoreBuild_RejectsMismatch(t *testing.T) {
	t.Parallel()

	s := buildTestCorpus(t)

	// Parallel-slice length mismatch.
	err := s.Build(context.Background(), []Passage{{ID: 0}}, nil)
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}

	// Inconsistent dimensions.
	err = s.Build(context.Background(),
		[]Passage{{ID: 0}, {ID: 1}},
		[][]float32{{1, 0}, {1, 0, 0}},
	)
	if err == nil {
		t.Fatal("expected error for inconsistent dimensions")
	}

	// Old corpus still answers.
	got, err := s.Search(context.Background(), []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search after failed Build: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected original 3 passages to survive failed Build, got %d", len(got))
	}
}

// TestMemoryStoreSearch_Empty verifies that searching an empty store fails
// with ErrEmptyIndex rather than succeeding with no results, so callers can
// tell "nothing ingested" from "nothing similar".
func TestMemoryStoreSearch_Empty(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	if _, err := s.Search(context.Background(), []float32{1, 0}, 1); !errors.Is(err, ErrEmptyIndex) {
		t.Fatalf("err = %v, want ErrEmptyIndex", err)
	}
}

// TestMemoryStoreCount verifies Count tracks the corpus across replaces.
func TestMemoryStoreCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	if n, err := s.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count on empty store = %d, %v; want 0, nil", n, err)
	}

	s = buildTestCorpus(t)
	if n, err := s.Count(ctx); err != nil || n != 3 {
		t.Fatalf("Count = %d, %v; want 3, nil", n, err)
	}
}
