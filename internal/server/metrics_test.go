package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/pipeline"
)

// gatherNames returns the set of metric family names in reg.
func gatherNames(t *testing.T, reg *prometheus.Registry) map[string]bool {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestMetrics_AskRequestCounted(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	qa := &fakeQA{answer: &pipeline.Answer{Text: "Paris"}, passages: 2}
	s := newTestServer(t, qa, &Config{Registry: reg})

	req := httptest.NewRequest(http.MethodPost, "/ask_question/?question=hi", nil)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	names := gatherNames(t, reg)
	for _, want := range []string{
		"aibot_ask_requests_total",
		"aibot_ask_duration_seconds",
		"aibot_http_requests_total",
		"aibot_http_duration_seconds",
	} {
		if !names[want] {
			t.Errorf("metric %q not recorded", want)
		}
	}
}

func TestMetrics_IngestUpdatesPassageGauge(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	qa := &fakeQA{
		ingestStatus: &pipeline.Status{OK: true, Headline: "Documents processed successfully. Ask your questions!"},
		passages:     7,
	}
	s := newTestServer(t, qa, &Config{Registry: reg})

	body, contentType := multipartBody(t, map[string][]byte{"doc.txt": []byte("text")})
	req := httptest.NewRequest(http.MethodPost, "/upload_documents/", body)
	req.Header.Set("Content-Type", contentType)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var gauge float64
	var found bool
	for _, f := range families {
		if f.GetName() == "aibot_index_passages" {
			found = true
			gauge = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	if !found {
		t.Fatal("aibot_index_passages not recorded")
	}
	if gauge != 7 {
		t.Errorf("aibot_index_passages = %v, want 7", gauge)
	}
}

func TestMetrics_Endpoint(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	qa := &fakeQA{answer: &pipeline.Answer{Text: "ok"}}
	s := newTestServer(t, qa, &Config{Registry: reg})

	// Generate one sample so the exposition body is non-trivial.
	ask := httptest.NewRequest(http.MethodPost, "/ask_question/?question=hi", nil)
	s.Handler().ServeHTTP(httptest.NewRecorder(), ask)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "aibot_ask_requests_total") {
		t.Error("exposition missing aibot_ask_requests_total")
	}
}
