// Package chunk splits extracted document text into overlapping, bounded-size
// passages for embedding and indexing. The splitting unit is the rune
// (Unicode code point), so multi-byte text never splits mid-character.
package chunk

import (
	"fmt"
	"strings"
)

// Default chunking parameters. 1000 runes with 100 overlap keeps a fact that
// straddles a boundary intact in at least one chunk while staying well under
// typical embedding input limits.
const (
	DefaultSize    = 1000
	DefaultOverlap = 100
)

// Chunker splits text into overlapping chunks of at most size runes, with
// overlap runes repeated between consecutive chunks.
type Chunker struct {
	// size is the maximum chunk length in runes.
	size int
	// overlap is the number of runes shared between consecutive chunks.
	overlap int
}

// New constructs a Chunker. size must be positive and overlap must be
// non-negative and strictly smaller than size — otherwise the stride would
// be zero or negative and chunking could never terminate.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk: size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk: overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk: overlap %d must be smaller than size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the configured maximum chunk length in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }

// Split breaks text into overlapping chunks. The input is trimmed first;
// blank input yields no chunks, and input of at most size runes yields
// exactly one chunk equal to the trimmed input. For longer input, removing
// the overlapping prefix of each chunk after the first and concatenating
// reconstructs the trimmed text exactly.
func (c *Chunker) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= c.size {
		return []string{trimmed}
	}

	var chunks []string
	stride := c.size - c.overlap
	for start := 0; start < len(runes); start += stride {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
