// Package sanitize strips prompt artifacts from raw generator output.
// Smaller models routinely echo pieces of the template back — a leading
// "Answer:" label, a restated "Question:" block, or the whole prompt with
// the answer appended. Cleaning is best-effort and total: when stripping
// would destroy the answer, the raw text is returned unchanged.
package sanitize

import (
	"strings"
)

// answerCue marks where generation was asked to begin. When the generator
// echoes the whole template, the real answer follows the last occurrence.
const answerCue = "Answer:"

// leadingLabels are template labels stripped from the front of the answer,
// repeatedly, in this order. Case-insensitive.
var leadingLabels = []string{
	"Answer:",
	"Response:",
	"Context:",
	"Question:",
}

// echoedSections are labels that, appearing on their own line after answer
// text has begun, indicate the generator started restating the template;
// everything from there on is dropped. Case-sensitive — these match the
// exact template spelling.
var echoedSections = []string{
	"\nContext:",
	"\nQuestion:",
}

// Clean strips known prompt artifacts from raw and returns the result.
// It never fails: if the cleaned text would be empty, raw is returned
// trimmed but otherwise unchanged.
func Clean(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return text
	}

	// Full template echo: keep only what follows the final answer cue.
	if idx := strings.LastIndex(text, answerCue); idx > 0 {
		text = text[idx+len(answerCue):]
	}
	text = strings.TrimSpace(text)

	// Code-fence wrapper around the whole answer.
	text = stripFence(text)

	// Leading labels, possibly stacked ("Answer: Response: ...").
	for {
		stripped := stripLeadingLabel(text)
		if stripped == text {
			break
		}
		text = stripped
	}

	// Trailing template restatement.
	for _, section := range echoedSections {
		if idx := strings.Index(text, section); idx > 0 {
			text = text[:idx]
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		// Never destroy an otherwise-present answer.
		return strings.TrimSpace(raw)
	}
	return text
}

// stripLeadingLabel removes one leading template label, case-insensitively.
func stripLeadingLabel(text string) string {
	for _, label := range leadingLabels {
		if len(text) >= len(label) && strings.EqualFold(text[:len(label)], label) {
			return strings.TrimSpace(text[len(label):])
		}
	}
	return text
}

// stripFence unwraps a ``` fence that encloses the entire text.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	// Drop an optional language tag on the opening fence line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && isLanguageTag(inner[:nl]) {
		inner = inner[nl+1:]
	}
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return text
	}
	return trimmed
}

// isLanguageTag reports whether s looks like a fence language tag ("text",
// "markdown") rather than answer content.
func isLanguageTag(s string) bool {
	if len(s) > 12 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
