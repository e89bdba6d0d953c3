package embedder

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
)

// DefaultLocalDimensions is the default vector size for the local backend.
// 512 buckets keeps hash collisions rare for document-sized corpora while
// staying cheap to scan.
const DefaultLocalDimensions = 512

// LocalEmbedder implements rag.Embedder by hashing token features into a
// fixed-dimension term-frequency vector. It runs entirely in-process, which
// makes it the default backend: no credentials, no network, and — because
// the mapping from text to vector is pure — trivially deterministic.
//
// The representation is lexical, not semantic: it scores passages by
// weighted token overlap with the query. That is a deliberate floor, not a
// ceiling — point EMBEDDING_PROVIDER at ollama or openai for dense semantic
// vectors.
type LocalEmbedder struct {
	// dimensions is the vector length (hash bucket count).
	dimensions int
	// tokenPattern matches word tokens, including apostrophe contractions.
	tokenPattern *regexp.Regexp
	// stopwords are high-frequency tokens excluded from the vector so they
	// do not dominate the similarity signal.
	stopwords map[string]struct{}
}

// NewLocalEmbedder constructs a LocalEmbedder with the given vector size.
// Non-positive dimensions fall back to DefaultLocalDimensions.
func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultLocalDimensions
	}
	return &LocalEmbedder{
		dimensions:   dimensions,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Embed converts a batch of texts into their corresponding embeddings.
// The returned slice is parallel to the input slice.
func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if err := checkInputs(texts); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embedOne(text)
	}
	return out, nil
}

// embedOne builds the term-frequency vector for a single text. Each token is
// hashed into a bucket; bucket counts are L2-normalized at the end. A text
// with no recognizable tokens (punctuation only, all stopwords) still yields
// a deterministic vector — the zero vector — which scores 0 against
// everything rather than failing, since the pipeline only embeds texts the
// chunker already found non-blank.
func (e *LocalEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimensions)
	for _, tok := range e.tokenize(text) {
		vec[e.bucket(tok)]++
	}
	return normalize(vec)
}

// bucket maps a token to its hash bucket.
func (e *LocalEmbedder) bucket(token string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return int(h.Sum32() % uint32(e.dimensions)) //nolint:gosec // dimensions is a small positive int
}

// tokenize lowercases text and returns its word tokens minus stopwords.
func (e *LocalEmbedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// defaultStopwords returns the English stopword set excluded from vectors.
func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "further", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "should", "now", "what", "who",
		"how", "where", "when", "which", "do", "does", "did", "not",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
