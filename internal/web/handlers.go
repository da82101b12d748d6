package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openpaddock/racefeed/internal/catalog"
	"github.com/openpaddock/racefeed/internal/logging"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleListSessions lists the known sessions and their dataset counts.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	type sessionInfo struct {
		Session  string `json:"session"`
		Datasets int    `json:"datasets"`
	}
	out := make([]sessionInfo, 0, len(catalog.Sessions()))
	for _, sess := range catalog.Sessions() {
		out = append(out, sessionInfo{Session: sess, Datasets: len(catalog.ForSession(sess))})
	}
	writeJSON(w, out)
}

// sessionParam validates the {session} URL parameter. A false return means
// the response has already been written.
func (s *Server) sessionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := chi.URLParam(r, "session")
	if !catalog.ValidSession(sess) {
		writeError(r.Context(), w, http.StatusNotFound, "unknown session")
		return "", false
	}
	return sess, true
}

// handleSchema serves the cached aggregate schema for one session.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	sch, err := s.sessions.LoadSchema(r.Context(), sess)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "schema load failed")
		return
	}
	writeJSON(w, sch)
}

// handleBootstrap serves the playback bootstrap snapshot. The bootstrap
// service never fails, so neither does this handler.
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.bootstrap.Bootstrap(r.Context(), sess))
}

// handleFrames streams telemetry frames as NDJSON, one frame per line,
// flushed as they are produced. The stream ends at EOF, at ?limit=N frames,
// or when the client disconnects; the request context cancellation reaches
// the reader, which releases the underlying file promptly.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(r.Context(), w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	seq := s.telemetry.Frames(r.Context(), sess, limit)
	defer seq.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")

	// ResponseController unwraps the logging middleware's writer to flush.
	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	logger := logging.FromContext(r.Context())

	sent := 0
	for {
		frame, ok := seq.Next()
		if !ok {
			break
		}
		if err := enc.Encode(frame); err != nil {
			// Client went away mid-write; the deferred Close stops the reader.
			logger.Debug("frame stream write failed", "session", sess, "sent", sent, "error", err)
			return
		}
		_ = rc.Flush()
		sent++
	}

	if err := seq.Err(); err != nil {
		logger.Warn("frame stream terminated", "session", sess, "sent", sent, "error", err)
		return
	}
	logger.Debug("frame stream complete", "session", sess, "sent", sent)
}
