package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ratewatch/ratings-data/internal/metrics"
)

// handleStreamSSE streams change notifications as server-sent events.
// The payload is the notification token only; clients re-fetch the snapshot.
func (s *Server) handleStreamSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	id, events := s.bus.Subscribe()
	defer s.bus.Unsubscribe(id)

	metrics.ActiveStreams.WithLabelValues("sse").Inc()
	defer metrics.ActiveStreams.WithLabelValues("sse").Dec()

	s.logger.Info("sse stream opened", "subscriber", id, "remote", r.RemoteAddr)
	defer s.logger.Info("sse stream closed", "subscriber", id)

	// Handshake: a comment so proxies commit to the stream, then the
	// reconnect delay the client should honor.
	fmt.Fprint(w, ": connected\n\n")
	fmt.Fprintf(w, "retry: %d\n\n", s.cfg.RetryInterval.Milliseconds())
	flusher.Flush()

	heartbeat := time.NewTicker(s.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: currencies\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprintf(w, ": ping %d\n\n", time.Now().UnixMilli()); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
