// Package embedder provides implementations of the rag.Embedder interface.
// The local backend hashes token features into a fixed-dimension vector and
// needs no network; the Ollama and OpenAI backends call their embedding REST
// APIs via plain HTTP — no additional SDK dependencies are required.
//
// All backends enforce the shared contract: blank input is an error, and
// returned vectors are L2-normalized so the index can score with a plain
// inner product.
package embedder

import (
	"fmt"
	"math"
	"strings"
)

// checkInputs rejects batches containing blank texts. An empty string has no
// embedding; silently returning a zero vector would poison every similarity
// score computed against it.
func checkInputs(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("embedder: no texts to embed")
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("embedder: text %d is blank", i)
		}
	}
	return nil
}

// normalize scales v to unit L2 length in place and returns it. A zero
// vector is returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}
