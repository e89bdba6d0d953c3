// Package budget provides token estimation and passage trimming for prompt
// construction. Because the generator backends use different tokenizers,
// this package uses a conservative character-based heuristic: 1 token ≈ 4
// characters (English prose). This deliberately under-estimates capacity to
// leave headroom for backend-specific overhead.
package budget

import (
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/rag"
)

const (
	// charsPerToken is the conservative character-to-token ratio used for
	// estimation. 4 chars/token is standard for English; using 3 would be
	// more aggressive but risks overflowing generator input limits.
	charsPerToken = 4

	// DefaultMaxPromptTokens is the default context budget for retrieved
	// passages. Conservative enough to fit small-context generators with
	// room left for the question and the template itself.
	DefaultMaxPromptTokens = 3000
)

// Estimate returns a rough token count for s using the character heuristic.
func Estimate(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		return 1
	}
	return n
}

// SelectPassages returns the longest prefix of passages whose combined
// estimated token count fits within maxTokens. passages must already be in
// descending score order (as the retriever returns them), so dropping the
// suffix drops the lowest-similarity passages first.
//
// The top passage is always kept even when it alone exceeds the budget —
// an over-long best match is still better context than none; the prompt
// builder truncates its text to fit.
func SelectPassages(passages []rag.ScoredPassage, maxTokens int) []rag.ScoredPassage {
	if len(passages) == 0 {
		return passages
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxPromptTokens
	}

	total := 0
	for i, p := range passages {
		total += Estimate(p.Passage.Text)
		if total > maxTokens {
			if i == 0 {
				return passages[:1]
			}
			return passages[:i]
		}
	}
	return passages
}

// TruncateToTokens cuts s so its estimated token count is at most maxTokens.
// Used on the single kept passage when it alone exceeds the budget.
func TruncateToTokens(s string, maxTokens int) string {
	if maxTokens <= 0 || Estimate(s) <= maxTokens {
		return s
	}
	limit := maxTokens * charsPerToken
	// Cut on a rune boundary.
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
