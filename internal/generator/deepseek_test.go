package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/prompt"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/rag"
)

func testPrompt() *prompt.Prompt {
	b := prompt.NewBuilder(0)
	return b.Build("What is the capital of France?", []rag.ScoredPassage{
		{Passage: rag.Passage{ID: 0, Text: "Paris is the capital of France."}, Score: 0.9},
	})
}

func TestDeepSeekGenerator_Success(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "Paris"})
	}))
	defer srv.Close()

	g, err := NewDeepSeekGenerator(&DeepSeekConfig{BaseURL: srv.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewDeepSeekGenerator: %v", err)
	}

	p := testPrompt()
	answer, err := g.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if answer != "Paris" {
		t.Errorf("answer = %q, want %q", answer, "Paris")
	}
	if gotPath != "/query" {
		t.Errorf("request path = %q, want /query", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
	if gotBody["query"] != p.Question {
		t.Errorf("query field = %q, want %q", gotBody["query"], p.Question)
	}
	if gotBody["documents"] != p.Context {
		t.Errorf("documents field = %q, want %q", gotBody["documents"], p.Context)
	}
}

func TestDeepSeekGenerator_NoAuthHeaderWithoutKey(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"answer": "ok"})
	}))
	defer srv.Close()

	g, err := NewDeepSeekGenerator(&DeepSeekConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewDeepSeekGenerator: %v", err)
	}
	if _, err := g.Generate(context.Background(), testPrompt()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestDeepSeekGenerator_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g, err := NewDeepSeekGenerator(&DeepSeekConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewDeepSeekGenerator: %v", err)
	}
	_, err = g.Generate(context.Background(), testPrompt())
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q does not mention status code", err)
	}
}

func TestDeepSeekGenerator_MalformedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	g, err := NewDeepSeekGenerator(&DeepSeekConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewDeepSeekGenerator: %v", err)
	}
	if _, err := g.Generate(context.Background(), testPrompt()); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}

func TestDeepSeekGenerator_EmptyAnswer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"answer": ""})
	}))
	defer srv.Close()

	g, err := NewDeepSeekGenerator(&DeepSeekConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewDeepSeekGenerator: %v", err)
	}
	if _, err := g.Generate(context.Background(), testPrompt()); err == nil {
		t.Fatal("expected error for empty answer")
	}
}

func TestNewDeepSeekGenerator_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewDeepSeekGenerator(&DeepSeekConfig{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}
