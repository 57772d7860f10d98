// Package httpclient provides the HTTP transport for the streaming
// pipeline: request execution, authentication headers, and SSE decoding.
package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/emberlink/chatstream/llm/streams"
)

// Request represents a generic HTTP request to the generation API.
type Request struct {
	// HTTP basics
	Method  string      `json:"method"`
	URL     string      `json:"url"`
	Query   url.Values  `json:"query,omitempty"`
	Headers http.Header `json:"headers,omitempty"`
	Body    []byte      `json:"body,omitempty"`

	// Authentication
	Auth *AuthConfig `json:"auth,omitempty"`

	// Request tracking
	RequestID string `json:"request_id,omitempty"`
}

// AuthConfig represents authentication configuration.
type AuthConfig struct {
	// Type is the type of authentication: "bearer" or "api_key".
	Type string `json:"type"`

	// APIKey is the credential for the request.
	APIKey string `json:"api_key,omitempty"`

	// HeaderKey is the header name used when Type is "api_key".
	HeaderKey string `json:"header_key,omitempty"`
}

const (
	AuthTypeBearer = "bearer"
	AuthTypeAPIKey = "api_key"
)

// Response represents a generic non-streaming HTTP response.
type Response struct {
	StatusCode int `json:"status_code"`

	Headers http.Header `json:"headers"`

	Body []byte `json:"body,omitempty"`

	// Stream carries the response body for streaming responses.
	Stream io.ReadCloser `json:"-"`
}

// StreamEvent is one decoded SSE frame.
type StreamEvent struct {
	LastEventID string `json:"last_event_id,omitempty"`
	Type        string `json:"type"`
	Data        []byte `json:"data"`
}

// StreamDecoder decodes a streaming response body into SSE frames.
type StreamDecoder = streams.Stream[*StreamEvent]

// StreamDecoderFactory creates a StreamDecoder from a response body.
type StreamDecoderFactory func(ctx context.Context, rc io.ReadCloser) StreamDecoder

type _StreamEventJSON struct {
	LastEventID string `json:"last_event_id,omitempty"`
	Type        string `json:"type"`
	Data        string `json:"data"`
}

// EncodeStreamEventToJSON encodes an SSE frame with its data as a string,
// which keeps JSONL fixtures readable.
func EncodeStreamEventToJSON(event *StreamEvent) ([]byte, error) {
	return json.Marshal(_StreamEventJSON{
		LastEventID: event.LastEventID,
		Type:        event.Type,
		Data:        string(event.Data),
	})
}

// DecodeStreamEventFromJSON is the inverse of EncodeStreamEventToJSON.
func DecodeStreamEventFromJSON(data []byte) (*StreamEvent, error) {
	var raw _StreamEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return &StreamEvent{
		LastEventID: raw.LastEventID,
		Type:        raw.Type,
		Data:        []byte(raw.Data),
	}, nil
}
