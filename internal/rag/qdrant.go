package rag

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig holds connection parameters for a Qdrant vector store instance.
type QdrantConfig struct {
	// Host is the Qdrant server hostname (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the corpus name. It is exposed as a Qdrant collection
	// alias; the physical collections behind it are managed by the store.
	Collection string

	// VectorSize is the dimensionality of the embeddings stored in this collection.
	VectorSize uint64

	// APIKey is the optional Qdrant API key for authenticated clusters.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
}

// QdrantStore implements VectorStore backed by a Qdrant instance. Unlike the
// in-memory store the corpus survives process restarts, which makes the
// `aibot ingest` command useful on its own.
//
// Replace semantics are alias-based: cfg.Collection is a Qdrant alias that
// always points at one of two physical collections. Build uploads the new
// corpus into the inactive collection and then moves the alias in a single
// alias-update request, so readers either see the whole previous corpus or
// the whole new one. A failed build leaves the alias, and with it the
// previous corpus, untouched.
type QdrantStore struct {
	// client is the underlying Qdrant gRPC client.
	client *qdrant.Client

	// cfg holds the resolved configuration for this store.
	cfg *QdrantConfig

	// mu serializes Build. active is the physical collection the alias
	// currently points at and is only touched under mu after construction.
	mu     sync.Mutex
	active string
}

// NewQdrantStore creates a new QdrantStore, ensuring the corpus alias and
// its backing collection exist, and returns a ready-to-use VectorStore.
func NewQdrantStore(ctx context.Context, cfg *QdrantConfig) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}

	clientCfg := &qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	}

	client, err := qdrant.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to create client: %w", err)
	}

	store := &QdrantStore{client: client, cfg: cfg}
	if err := store.ensureAlias(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureAlias resolves the corpus alias, creating the first physical
// collection and the alias on a fresh deployment.
func (s *QdrantStore) ensureAlias(ctx context.Context) error {
	aliases, err := s.client.ListAliases(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: failed to list aliases: %w", err)
	}
	for _, a := range aliases {
		if a.GetAliasName() == s.cfg.Collection {
			s.active = a.GetCollectionName()
			return nil
		}
	}

	phys := s.cfg.Collection + "-a"
	if err := s.recreateCollection(ctx, phys); err != nil {
		return err
	}
	if err := s.client.CreateAlias(ctx, s.cfg.Collection, phys); err != nil {
		return fmt.Errorf("qdrant: failed to create alias %q: %w", s.cfg.Collection, err)
	}
	s.active = phys
	return nil
}

// recreateCollection drops name if it exists (a leftover from an
// interrupted build) and creates it fresh.
func (s *QdrantStore) recreateCollection(ctx context.Context, name string) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection existence: %w", err)
	}
	if exists {
		if err := s.client.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("qdrant: failed to drop collection %q: %w", name, err)
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %q: %w", name, err)
	}

	return nil
}

// Build replaces the corpus. The new passages are uploaded into the
// inactive physical collection and the alias is moved only after the upsert
// succeeds, so a failure at any point keeps the previous corpus serving.
func (s *QdrantStore) Build(ctx context.Context, passages []Passage, embeddings [][]float32) error {
	if len(passages) != len(embeddings) {
		return fmt.Errorf("qdrant: %d passages but %d embeddings", len(passages), len(embeddings))
	}
	if len(passages) == 0 {
		return fmt.Errorf("qdrant: refusing to build an empty corpus")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staging := s.cfg.Collection + "-a"
	if s.active == staging {
		staging = s.cfg.Collection + "-b"
	}
	if err := s.recreateCollection(ctx, staging); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(passages))
	for i, p := range passages {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(p.ID)), //nolint:gosec // IDs are small sequential ints
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"text":   p.Text,
				"source": p.Source,
				"offset": int64(p.Offset),
			}),
		})
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: staging,
		Points:         points,
	}); err != nil {
		// The alias still points at the previous corpus; the staging
		// collection is dropped again by the next build.
		_ = s.client.DeleteCollection(ctx, staging)
		return fmt.Errorf("qdrant: upsert failed: %w", err)
	}

	// A single alias-update request is atomic on the Qdrant side: readers
	// see either the old corpus or the new one, never a mix.
	if err := s.client.UpdateAliases(ctx, []*qdrant.AliasOperations{
		qdrant.NewAliasDelete(s.cfg.Collection),
		qdrant.NewAliasCreate(s.cfg.Collection, staging),
	}); err != nil {
		_ = s.client.DeleteCollection(ctx, staging)
		return fmt.Errorf("qdrant: failed to move alias %q: %w", s.cfg.Collection, err)
	}

	old := s.active
	s.active = staging
	// Best effort: a leftover old collection is reclaimed by a later build.
	_ = s.client.DeleteCollection(ctx, old)

	return nil
}

// Search performs a cosine similarity search through the corpus alias and
// returns the top-k results. An empty corpus fails with ErrEmptyIndex.
func (s *QdrantStore) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]ScoredPassage, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("qdrant: topK must be positive, got %d", topK)
	}

	limit := uint64(topK) //nolint:gosec // topK is a small positive config value
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search failed: %w", err)
	}
	if len(results) == 0 {
		// Cosine search over a non-empty collection always yields at least
		// one hit for positive topK, so no results means no corpus.
		return nil, ErrEmptyIndex
	}

	passages := make([]ScoredPassage, 0, len(results))
	for _, r := range results {
		sp := ScoredPassage{
			Passage: Passage{ID: int(r.Id.GetNum())}, //nolint:gosec // IDs were stored from small ints
			Score:   r.Score,
		}
		if p := r.Payload; p != nil {
			if v, ok := p["text"]; ok {
				sp.Passage.Text = v.GetStringValue()
			}
			if v, ok := p["source"]; ok {
				sp.Passage.Source = v.GetStringValue()
			}
			if v, ok := p["offset"]; ok {
				sp.Passage.Offset = int(v.GetIntegerValue())
			}
		}
		passages = append(passages, sp)
	}

	// Qdrant orders by score but leaves equal-score ordering unspecified;
	// re-sort so ties break by ascending passage ID like the memory store.
	sort.Slice(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		return passages[i].Passage.ID < passages[j].Passage.ID
	})

	return passages, nil
}

// Count reports the number of passages behind the corpus alias. It answers
// from the stored collection, so a fresh process can pick up a corpus
// ingested by an earlier run.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.cfg.Collection,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count failed: %w", err)
	}
	return int(n), nil //nolint:gosec // corpus sizes fit in int
}

// Client exposes the underlying Qdrant client, used for readiness probes.
func (s *QdrantStore) Client() *qdrant.Client {
	return s.client
}

// Close closes the underlying Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}
