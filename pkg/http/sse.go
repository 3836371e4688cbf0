package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "courtsync/pkg/errors"
)

const (
	EventSnapshot = "snapshot"
	EventError    = "error"
)

// Stream writes Server-Sent Events. Each live view handler opens one
// stream per client connection and pushes a full derived snapshot on
// every change.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func NewStream(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, apperrors.Internal("streaming unsupported by the underlying connection", nil)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Stream{w: w, flusher: flusher}, nil
}

// Send emits one named event with a JSON payload and flushes it.
func (s *Stream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode stream event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return fmt.Errorf("failed to write stream event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// SendError surfaces a subscription failure to the client as a terminal
// error frame. The caller closes the stream afterwards; no retry is
// attempted server-side.
func (s *Stream) SendError(message string) {
	_ = s.Send(EventError, ErrorResponse{Error: message})
}
