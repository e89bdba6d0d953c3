// Package extract converts raw document bytes into plain text for chunking.
// PDF documents are parsed page by page; anything else that is valid UTF-8
// is passed through as plain text. Extraction either succeeds with the full
// document text or fails cleanly — it never returns partial garbage.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Extract converts document bytes into plain text. name is the source
// identifier used in error messages (filename or URL). Pages that yield no
// text contribute an empty string — scanned or image-only pages are common
// and must not fail the whole document.
func Extract(data []byte, name string) (string, error) {
	if bytes.HasPrefix(data, pdfMagic) {
		return extractPDF(data, name)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("extract: %s is neither a PDF nor valid UTF-8 text", name)
	}
	return string(data), nil
}

// extractPDF concatenates the plain text of every page in document order.
func extractPDF(data []byte, name string) (text string, err error) {
	// The parser panics on some malformed files; convert that to an error so
	// one bad upload cannot take down the process.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract: %s: malformed PDF: %v", name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: %s: %w", name, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page behaves like an empty one.
			continue
		}
		b.WriteString(pageText)
	}

	return b.String(), nil
}
