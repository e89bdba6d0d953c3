package chunk

import (
	"strings"
	"testing"
)

// reassemble undoes the overlap: the first chunk is kept whole, every later
// chunk contributes only the part after the overlapping prefix.
func reassemble(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		runes := []rune(c)
		if i == 0 {
			b.WriteString(c)
			continue
		}
		if len(runes) > overlap {
			b.WriteString(string(runes[overlap:]))
		}
	}
	return b.String()
}

// TestSplit_RoundTrip verifies that removing overlaps and concatenating
// reconstructs the original trimmed text.
func TestSplit_RoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(10, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inputs := []string{
		"abcdefghijklmnopqrstuvwxyz",
		strings.Repeat("the quick brown fox jumps over the lazy dog ", 20),
		"héllo wörld — ünïcode text with multi-byte rünes repeated a few times over",
	}
	for _, in := range inputs {
		chunks := c.Split(in)
		if len(chunks) == 0 {
			t.Fatalf("no chunks for non-empty input %q", in)
		}
		got := reassemble(chunks, c.Overlap())
		want := strings.TrimSpace(in)
		if got != want {
			t.Errorf("round-trip mismatch:\n got %q\nwant %q", got, want)
		}
	}
}

// TestSplit_ShortInput verifies that input at most size runes long yields
// exactly one chunk equal to the trimmed input.
func TestSplit_ShortInput(t *testing.T) {
	t.Parallel()

	c, err := New(100, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := c.Split("  a short document  ")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a short document" {
		t.Errorf("expected trimmed input, got %q", chunks[0])
	}
}

// TestSplit_BlankInput verifies that blank input yields no chunks.
func TestSplit_BlankInput(t *testing.T) {
	t.Parallel()

	c, err := New(100, 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, in := range []string{"", "   ", "\n\t\n"} {
		if chunks := c.Split(in); chunks != nil {
			t.Errorf("expected nil chunks for %q, got %v", in, chunks)
		}
	}
}

// TestSplit_OverlapAppears verifies that consecutive chunks share exactly
// the configured overlap.
func TestSplit_OverlapAppears(t *testing.T) {
	t.Parallel()

	c, err := New(8, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunks := c.Split("abcdefghijklmnop")
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-4:]
		head := chunks[i][:4]
		if prevTail != head {
			t.Errorf("chunk %d: overlap mismatch: %q vs %q", i, prevTail, head)
		}
	}
}

// TestNew_RejectsInvalidParameters verifies the overlap < size invariant.
func TestNew_RejectsInvalidParameters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 11},
	}
	for _, tc := range cases {
		if _, err := New(tc.size, tc.overlap); err == nil {
			t.Errorf("%s: expected error for size=%d overlap=%d", tc.name, tc.size, tc.overlap)
		}
	}
}
