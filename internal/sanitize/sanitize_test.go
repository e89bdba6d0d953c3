package sanitize

import (
	"testing"
)

// TestClean_Table covers the known artifact patterns.
func TestClean_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean answer untouched",
			in:   "The capital of France is Paris.",
			want: "The capital of France is Paris.",
		},
		{
			name: "leading answer label",
			in:   "Answer: Paris.",
			want: "Paris.",
		},
		{
			name: "lowercase label",
			in:   "answer: Paris.",
			want: "Paris.",
		},
		{
			name: "stacked labels",
			in:   "Answer: Response: Paris.",
			want: "Paris.",
		},
		{
			name: "full template echo",
			in: "Use the following context to answer the question.\n\n" +
				"Context:\nThe capital of France is Paris.\n\n" +
				"Question: What is the capital of France?\n\nAnswer: Paris.",
			want: "Paris.",
		},
		{
			name: "trailing question restatement",
			in:   "Paris is the capital.\nQuestion: What else?",
			want: "Paris is the capital.",
		},
		{
			name: "code fence wrapper",
			in:   "```\nParis.\n```",
			want: "Paris.",
		},
		{
			name: "code fence with language tag",
			in:   "```text\nParis.\n```",
			want: "Paris.",
		},
		{
			name: "surrounding whitespace",
			in:   "   Paris.\n\n",
			want: "Paris.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tc.in); got != tc.want {
				t.Errorf("Clean(%q):\n got %q\nwant %q", tc.in, got, tc.want)
			}
		})
	}
}

// TestClean_NeverDestroys verifies the total-function guarantee: when every
// pattern matches and nothing would remain, the raw text survives.
func TestClean_NeverDestroys(t *testing.T) {
	t.Parallel()

	in := "Answer:"
	if got := Clean(in); got != "Answer:" {
		t.Errorf("expected raw text back when cleaning empties it, got %q", got)
	}

	if got := Clean(""); got != "" {
		t.Errorf("expected empty in, empty out, got %q", got)
	}
}
