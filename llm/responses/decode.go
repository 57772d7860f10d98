package responses

import (
	"bytes"
	"fmt"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// DoneData is the literal SSE payload that signals end-of-stream. It must
// be recognized before any decode attempt; it is not a JSON event.
const DoneData = "[DONE]"

// IsDoneFrame reports whether the SSE data payload is the end-of-stream marker.
func IsDoneFrame(data []byte) bool {
	return string(bytes.TrimSpace(data)) == DoneData
}

// DecodeErrorReason classifies why an event frame could not be decoded.
type DecodeErrorReason string

const (
	// MalformedPayload means the frame is not valid JSON. Not recoverable:
	// the stream position can no longer be trusted.
	MalformedPayload DecodeErrorReason = "malformed_payload"

	// MissingField means a known event type arrived without a required
	// field. Recoverable: the single event is degraded, the stream continues.
	MissingField DecodeErrorReason = "missing_field"
)

// DecodeError describes a frame that could not be decoded into an Event.
type DecodeError struct {
	Reason DecodeErrorReason
	Field  string
	Path   string
}

func (e *DecodeError) Error() string {
	if e.Reason == MissingField {
		return fmt.Sprintf("decode event: missing field %q at %q", e.Field, e.Path)
	}

	return "decode event: malformed payload"
}

// Recoverable reports whether the stream may continue past this error.
func (e *DecodeError) Recoverable() bool {
	return e.Reason == MissingField
}

func missingField(field, path string) *DecodeError {
	return &DecodeError{Reason: MissingField, Field: field, Path: path}
}

// DecodeEvent decodes one SSE data payload into a typed Event. The payload
// must not be the [DONE] marker; callers filter that out first. Unknown
// type discriminators decode to Ignored, never to an error.
func DecodeEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Reason: MalformedPayload}
	}

	root := gjson.ParseBytes(data)

	typ := root.Get("type")
	if !typ.Exists() {
		return nil, missingField("type", "type")
	}

	switch EventType(typ.String()) {
	case EventTypeResponseCreated:
		id := root.Get("response.id")
		if !id.Exists() {
			return nil, missingField("id", "response.id")
		}

		return Created{
			ResponseID: id.String(),
			Status:     root.Get("response.status").String(),
		}, nil

	case EventTypeResponseInProgress:
		return InProgress{}, nil

	case EventTypeResponseQueued:
		return Queued{}, nil

	case EventTypeResponseIncomplete:
		return Incomplete{}, nil

	case EventTypeOutputTextDelta:
		itemID := root.Get("item_id")
		if !itemID.Exists() {
			return nil, missingField("item_id", "item_id")
		}

		delta := root.Get("delta")
		if !delta.Exists() {
			return nil, missingField("delta", "delta")
		}

		return Delta{
			ItemID:       itemID.String(),
			OutputIndex:  int(root.Get("output_index").Int()),
			ContentIndex: int(root.Get("content_index").Int()),
			Text:         delta.String(),
		}, nil

	case EventTypeOutputTextDone:
		itemID := root.Get("item_id")
		if !itemID.Exists() {
			return nil, missingField("item_id", "item_id")
		}

		text := root.Get("text")
		if !text.Exists() {
			return nil, missingField("text", "text")
		}

		return TextDone{
			ItemID:       itemID.String(),
			ContentIndex: int(root.Get("content_index").Int()),
			Text:         text.String(),
		}, nil

	case EventTypeContentPartDone:
		itemID := root.Get("item_id")
		if !itemID.Exists() {
			return nil, missingField("item_id", "item_id")
		}

		event := ContentPartDone{
			ItemID:       itemID.String(),
			ContentIndex: int(root.Get("content_index").Int()),
		}

		if text := root.Get("part.text"); text.Exists() {
			event.Text = lo.ToPtr(text.String())
		}

		return event, nil

	case EventTypeResponseCompleted:
		id := root.Get("response.id")
		if !id.Exists() {
			return nil, missingField("id", "response.id")
		}

		event := Completed{ResponseID: id.String()}

		if text := root.Get("response.output_text"); text.Exists() {
			event.OutputText = lo.ToPtr(text.String())
		}

		return event, nil

	case EventTypeResponseFailed:
		return Failed{
			Message: root.Get("response.error.message").String(),
		}, nil

	case EventTypeError:
		message := root.Get("message")
		if !message.Exists() {
			return nil, missingField("message", "message")
		}

		return ErrorEvent{
			Code:    root.Get("code").String(),
			Message: message.String(),
			Param:   root.Get("param").String(),
		}, nil

	default:
		return Ignored{RawType: typ.String()}, nil
	}
}
