package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stream event names.
const (
	eventStage    = "stage"
	eventComplete = "complete"
	eventError    = "error"
)

// eventStream writes server-sent events, flushing after each one.
type eventStream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// openEventStream sends the event-stream headers with a 200 status. It
// fails before writing anything when the writer cannot flush.
func openEventStream(w http.ResponseWriter) (*eventStream, error) {
	rc := http.NewResponseController(w)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	if err := rc.Flush(); err != nil {
		for _, k := range []string{"Content-Type", "Cache-Control", "Connection", "X-Accel-Buffering"} {
			h.Del(k)
		}
		return nil, fmt.Errorf("streaming not supported: %w", err)
	}
	return &eventStream{w: w, rc: rc}, nil
}

func (s *eventStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return s.rc.Flush()
}

func (s *eventStream) stage(name string) error {
	return s.send(eventStage, map[string]string{"stage": name})
}

// fail carries the status the non-streaming endpoint would have returned.
func (s *eventStream) fail(status int, message string) error {
	return s.send(eventError, map[string]any{"error": message, "status": status})
}

func (s *eventStream) complete(result any) error {
	return s.send(eventComplete, result)
}
