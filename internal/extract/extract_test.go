package extract

import (
	"strings"
	"testing"
)

// TestExtract_PlainTextPassthrough verifies that non-PDF UTF-8 bytes are
// returned unchanged.
func TestExtract_PlainTextPassthrough(t *testing.T) {
	t.Parallel()

	in := "The capital of France is Paris.\nSecond line."
	got, err := Extract([]byte(in), "notes.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != in {
		t.Errorf("expected passthrough, got %q", got)
	}
}

// TestExtract_EmptyInput verifies that an empty byte stream extracts to an
// empty string without error — the pipeline turns blank aggregate text into
// its empty-corpus failure, not the extractor.
func TestExtract_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := Extract(nil, "empty.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

// TestExtract_InvalidUTF8 verifies that undecodable non-PDF bytes produce a
// clear error rather than garbage text.
func TestExtract_InvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := Extract([]byte{0xff, 0xfe, 0x00, 0x81}, "blob.bin")
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	if !strings.Contains(err.Error(), "blob.bin") {
		t.Errorf("error should name the source, got %v", err)
	}
}

// TestExtract_TruncatedPDF verifies that bytes with a PDF signature but no
// parseable structure fail with an error naming the source.
func TestExtract_TruncatedPDF(t *testing.T) {
	t.Parallel()

	_, err := Extract([]byte("%PDF-1.7\nthis is not a real pdf body"), "broken.pdf")
	if err == nil {
		t.Fatal("expected error for truncated PDF")
	}
	if !strings.Contains(err.Error(), "broken.pdf") {
		t.Errorf("error should name the source, got %v", err)
	}
}
