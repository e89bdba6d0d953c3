package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Thakur123-Bool/Aibotdeepseek/internal/logging"
	"github.com/Thakur123-Bool/Aibotdeepseek/internal/pipeline"
)

// notIngestedDetail is the 400 message returned by POST /ask_question/
// before any documents have been processed.
const notIngestedDetail = "Documents have not been processed yet."

// handleRoot handles GET / with a constant welcome payload.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, welcomeResponse{Message: welcomeMessage})
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload handles POST /upload_documents/. It accepts one or more
// multipart files, runs the full ingestion pipeline, and returns the
// processing trail. Ingestion failures are reported inside the trail with a
// 200 status; only malformed requests produce an HTTP error.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	var sources []pipeline.Source
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "could not open uploaded file "+fh.Filename)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, "could not read uploaded file "+fh.Filename)
				return
			}
			sources = append(sources, pipeline.Source{Name: fh.Filename, Data: data})
		}
	}
	if len(sources) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	status, err := s.qa.Ingest(r.Context(), sources)
	s.observeIngest(err, start)
	if err != nil {
		log.Warn("ingestion failed", slog.Int("files", len(sources)), slog.Any("error", err))
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

// handleProcessURL handles POST /process_url/. The document is fetched with
// a bounded timeout; download and ingestion failures are reported inside the
// returned trail.
func (s *Server) handleProcessURL(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logging.FromContext(r.Context())

	url := r.FormValue("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	status, err := s.qa.IngestURL(r.Context(), url)
	s.observeIngest(err, start)
	if err != nil {
		log.Warn("url ingestion failed", slog.String("url", url), slog.Any("error", err))
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

// handleAsk handles POST /ask_question/. Returns 400 when no documents have
// been processed, 500 when the generation backend fails.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logging.FromContext(r.Context())

	question := r.FormValue("question")
	if question == "" {
		s.metrics.askRequestsTotal.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.qa.Answer(r.Context(), question)
	switch {
	case errors.Is(err, pipeline.ErrNotIngested):
		s.observeAsk(outcomeNotIngested, start)
		writeError(w, http.StatusBadRequest, notIngestedDetail)
		return
	case err != nil:
		s.observeAsk(outcomeError, start)
		log.Error("answering failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	s.observeAsk(outcomeOK, start)
	writeJSON(w, http.StatusOK, askResponse{Response: answer.Text})
}

// handleHistory handles GET /api/history. The optional "n" query parameter
// caps the number of entries (default 20).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	n := 20
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	entries, err := s.cfg.History.Recent(r.Context(), n)
	if err != nil {
		logging.FromContext(r.Context()).Error("history read failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "could not read history")
		return
	}

	resp := historyResponse{Entries: []historyEntry{}}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, historyEntry{
			Question: e.Question,
			Answer:   e.Answer,
			AskedAt:  e.AskedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// observeIngest records ingestion metrics and the indexed corpus size.
func (s *Server) observeIngest(err error, start time.Time) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	s.metrics.ingestRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.ingestDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	s.metrics.indexedPassages.Set(float64(s.qa.PassageCount()))
}

// observeAsk records question metrics.
func (s *Server) observeAsk(outcome string, start time.Time) {
	s.metrics.askRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.askDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// writeJSON encodes v as the JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body in the {"detail": ...} shape.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
