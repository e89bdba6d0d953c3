// Package prompt assembles the generation prompt from retrieved passages and
// the user's question. The template is deterministic: a labeled Context
// block always precedes a labeled Question block, so the generator can never
// confuse injected passage text with the question itself, and a trailing
// "Answer:" cue anchors where generation should begin.
package prompt

import (
	"strings"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/budget"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/rag"
)

// instruction is the fixed preamble. It pins the generator to the supplied
// context so answers stay grounded in the ingested corpus.
const instruction = "Use the following context to answer the question. " +
	"If the answer is not in the context, say that you do not know."

// Prompt is the assembled generation input. Generator backends that take a
// single string use Text; the remote document-QA backend sends Question and
// Context as separate wire fields.
type Prompt struct {
	// Question is the user's question, verbatim.
	Question string

	// Context is the budget-selected passage text, passages separated by
	// blank lines, highest similarity first.
	Context string

	// Text is the fully rendered template.
	Text string

	// Passages are the passages that made it into Context, in order.
	Passages []rag.ScoredPassage
}

// Builder renders prompts within a fixed token budget.
type Builder struct {
	// maxTokens bounds the estimated token count of the Context block.
	// Lowest-similarity passages are dropped first when the retrieved set
	// exceeds it.
	maxTokens int
}

// NewBuilder constructs a Builder. Non-positive maxTokens falls back to
// budget.DefaultMaxPromptTokens.
func NewBuilder(maxTokens int) *Builder {
	if maxTokens <= 0 {
		maxTokens = budget.DefaultMaxPromptTokens
	}
	return &Builder{maxTokens: maxTokens}
}

// Build renders the prompt for question over the retrieved passages.
// passages must be in descending score order. Passages beyond the token
// budget are dropped lowest-similarity first; if the single best passage
// alone exceeds the budget its text is truncated instead.
func (b *Builder) Build(question string, passages []rag.ScoredPassage) *Prompt {
	kept := budget.SelectPassages(passages, b.maxTokens)

	texts := make([]string, 0, len(kept))
	for _, p := range kept {
		texts = append(texts, strings.TrimSpace(p.Passage.Text))
	}
	contextBlock := strings.Join(texts, "\n\n")
	if len(kept) == 1 {
		contextBlock = budget.TruncateToTokens(contextBlock, b.maxTokens)
	}

	question = strings.TrimSpace(question)

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")

	return &Prompt{
		Question: question,
		Context:  contextBlock,
		Text:     sb.String(),
		Passages: kept,
	}
}
