package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ananya/resumatch/internal/events"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event with a JSON payload carrying the event
// type, so clients reading the data lines alone can still dispatch.
func (s *SSEWriter) WriteEvent(ev events.Event) error {
	payload := map[string]any{"type": ev.Type}
	if ev.Data != nil {
		payload["data"] = ev.Data
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", ev.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends a terminal error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent(events.Event{Type: events.TypeError, Data: message}) //nolint:errcheck
}
