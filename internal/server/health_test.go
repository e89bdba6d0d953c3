package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakePinger is a Pinger double with a fixed result.
type fakePinger struct {
	name string
	err  error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }
func (p *fakePinger) Name() string               { return p.name }

func TestReady_NoPingers(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeQA{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp readyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Ready {
		t.Error("ready = false with no pingers")
	}
}

func TestReady_AllHealthy(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeQA{}, &Config{Pingers: []Pinger{
		&fakePinger{name: "deepseek"},
		&fakePinger{name: "qdrant"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp readyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Ready || len(resp.Checks) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestReady_DependencyDown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeQA{}, &Config{Pingers: []Pinger{
		&fakePinger{name: "deepseek"},
		&fakePinger{name: "qdrant", err: errors.New("connection refused")},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var resp readyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Ready {
		t.Error("ready = true with a failing dependency")
	}
	var found bool
	for _, c := range resp.Checks {
		if c.Name == "qdrant" && !c.OK && c.Error != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("checks missing failed qdrant entry: %+v", resp.Checks)
	}
}

func TestMultiPinger_FirstFailureWins(t *testing.T) {
	t.Parallel()
	mp := NewMultiPinger(
		&fakePinger{name: "a"},
		&fakePinger{name: "b", err: errors.New("down")},
		&fakePinger{name: "c", err: errors.New("also down")},
	)

	err := mp.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "b: down" {
		t.Errorf("error = %q, want %q", got, "b: down")
	}
}

func TestHTTPPinger(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	// 4xx counts as reachable.
	p := NewHTTPPinger(srv.URL, "deepseek")
	if err := p.Ping(context.Background()); err != nil {
		t.Errorf("Ping with 404 backend: %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	p = NewHTTPPinger(down.URL, "deepseek")
	if err := p.Ping(context.Background()); err == nil {
		t.Error("Ping with 500 backend: expected error")
	}
}
