// Package simulator serves scripted Responses API SSE streams, for tests
// and offline development against a realistic event sequence.
package simulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/emberlink/chatstream/internal/log"
	"github.com/emberlink/chatstream/llm/responses"
)

// Script is the outcome the simulator plays for one request.
type Script struct {
	// Text is streamed as deltas and finalized with done events.
	Text string

	// FailMessage, when set, fails the response after the first delta.
	FailMessage string

	// UnknownEventTypes are interleaved before the first delta, to exercise
	// forward compatibility in clients.
	UnknownEventTypes []string
}

// ScriptFunc selects the script for a decoded wire request.
type ScriptFunc func(request *responses.Request) Script

// Option configures the Simulator.
type Option func(*Simulator)

// WithScript sets the script selector.
func WithScript(fn ScriptFunc) Option {
	return func(s *Simulator) {
		s.script = fn
	}
}

// WithChunkSize sets how many bytes each delta carries.
func WithChunkSize(n int) Option {
	return func(s *Simulator) {
		s.chunkSize = n
	}
}

// WithDelay sets the pause between emitted events.
func WithDelay(d time.Duration) Option {
	return func(s *Simulator) {
		s.delay = d
	}
}

// Simulator is an http.Handler speaking the Responses API SSE protocol.
type Simulator struct {
	script    ScriptFunc
	chunkSize int
	delay     time.Duration
}

// New creates a simulator. The default script echoes a fixed greeting.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		script: func(*responses.Request) Script {
			return Script{Text: "Hello! This is a simulated response."}
		},
		chunkSize: 8,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Simulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request responses.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error":{"code":"invalid_request","message":"malformed request body"}}`, http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	script := s.script(&request)
	responseID := "resp_" + uuid.NewString()
	itemID := "msg_" + uuid.NewString()

	log.Debug(r.Context(), "simulating response",
		log.String("response_id", responseID),
		log.String("model", request.Model),
	)

	emit := newEmitter(w, flusher, s.delay)

	emit.event(string(responses.EventTypeResponseCreated),
		"response.id", responseID,
		"response.object", "response",
		"response.status", "in_progress",
	)
	emit.event(string(responses.EventTypeResponseInProgress),
		"response.id", responseID,
		"response.status", "in_progress",
	)

	for _, unknown := range script.UnknownEventTypes {
		emit.event(unknown, "item_id", itemID)
	}

	text := script.Text
	for i := 0; i < len(text); i += s.chunkSize {
		end := min(i+s.chunkSize, len(text))

		emit.event(string(responses.EventTypeOutputTextDelta),
			"item_id", itemID,
			"output_index", 0,
			"content_index", 0,
			"delta", text[i:end],
		)

		if script.FailMessage != "" {
			emit.event(string(responses.EventTypeResponseFailed),
				"response.id", responseID,
				"response.status", "failed",
				"response.error.code", "server_error",
				"response.error.message", script.FailMessage,
			)
			emit.done()

			return
		}
	}

	emit.event(string(responses.EventTypeOutputTextDone),
		"item_id", itemID,
		"output_index", 0,
		"content_index", 0,
		"text", text,
	)
	emit.event(string(responses.EventTypeContentPartDone),
		"item_id", itemID,
		"output_index", 0,
		"content_index", 0,
		"part.type", "output_text",
		"part.text", text,
	)
	emit.event(string(responses.EventTypeResponseCompleted),
		"response.id", responseID,
		"response.status", "completed",
		"response.output_text", text,
	)
	emit.done()
}

type emitter struct {
	w        http.ResponseWriter
	flusher  http.Flusher
	delay    time.Duration
	sequence int
}

func newEmitter(w http.ResponseWriter, flusher http.Flusher, delay time.Duration) *emitter {
	return &emitter{w: w, flusher: flusher, delay: delay}
}

// event writes one SSE frame built from path/value pairs.
func (e *emitter) event(eventType string, pairs ...any) {
	data := []byte(`{}`)
	data, _ = sjson.SetBytes(data, "type", eventType)
	data, _ = sjson.SetBytes(data, "sequence_number", e.sequence)
	e.sequence++

	for i := 0; i+1 < len(pairs); i += 2 {
		path, ok := pairs[i].(string)
		if !ok {
			continue
		}

		data, _ = sjson.SetBytes(data, path, pairs[i+1])
	}

	fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", eventType, data)
	e.flusher.Flush()

	if e.delay > 0 {
		time.Sleep(e.delay)
	}
}

func (e *emitter) done() {
	fmt.Fprintf(e.w, "data: %s\n\n", responses.DoneData)
	e.flusher.Flush()
}
