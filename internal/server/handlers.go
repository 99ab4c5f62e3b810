package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// maxBodyBytes limits the size of incoming request bodies.
const maxBodyBytes = 1 * 1024 * 1024 // 1 MB

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	out := s.engine.Quote(r.Context(), body)
	writeJSON(w, out.HTTPStatus(), out.Payload())
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	out := s.engine.RequestCollection(r.Context(), body)
	writeJSON(w, out.HTTPStatus(), out.Payload())
}

func readLimitedRequestBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	slog.Error("request failed", "status", status, "error", message)
	writeJSON(w, status, map[string]any{"ok": false, "reason": message})
}
