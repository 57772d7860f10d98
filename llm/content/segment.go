// Package content turns accumulated response text into ordered, renderable
// segments and classifies the cheapest update between two renditions.
package content

import (
	"bytes"

	"github.com/emberlink/chatstream/llm"
)

// Kind discriminates segment variants.
type Kind string

const (
	KindText            Kind = "text"
	KindCode            Kind = "code"
	KindStreamingText   Kind = "streaming_text"
	KindPartialCode     Kind = "partial_code"
	KindAttachments     Kind = "attachments"
	KindGeneratedImages Kind = "generated_images"
)

// Segment is one renderable piece of message content. Values are immutable;
// re-parse instead of mutating.
type Segment interface {
	Kind() Kind
}

// Text is finalized prose.
type Text struct {
	Text string
}

func (Text) Kind() Kind { return KindText }

// StreamingText is prose that may still grow. Emitted instead of Text only
// when the whole snapshot is fence-free and the message is still streaming,
// so renderers can pick non-final styling.
type StreamingText struct {
	Text string
}

func (StreamingText) Kind() Kind { return KindStreamingText }

// Code is a closed fenced code block. Language may be empty.
type Code struct {
	Code     string
	Language string
}

func (Code) Kind() Kind { return KindCode }

// PartialCode is a still-open fenced block, raw text including the opening
// fence. Only appears while the owning message is streaming.
type PartialCode struct {
	Raw      string
	Language string
}

func (PartialCode) Kind() Kind { return KindPartialCode }

// Attachments lists the user-supplied attachments. Always the first segment
// when present.
type Attachments struct {
	Refs []llm.AttachmentRef
}

func (Attachments) Kind() Kind { return KindAttachments }

// GeneratedImages carries model-generated image payloads. Always the last
// segment when present.
type GeneratedImages struct {
	Images [][]byte
}

func (GeneratedImages) Kind() Kind { return KindGeneratedImages }

// MessageContent is the full parsed rendition of one message. Recomputed
// wholesale on every snapshot, never mutated in place.
type MessageContent struct {
	MessageID   string
	Role        llm.Role
	Segments    []Segment
	IsStreaming bool
}

// Equal reports deep equality of two renditions.
func (c MessageContent) Equal(other MessageContent) bool {
	if c.MessageID != other.MessageID || c.Role != other.Role || c.IsStreaming != other.IsStreaming {
		return false
	}

	return SegmentsEqual(c.Segments, other.Segments)
}

// SegmentsEqual reports deep equality of two segment lists.
func SegmentsEqual(a, b []Segment) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !SegmentEqual(a[i], b[i]) {
			return false
		}
	}

	return true
}

// SegmentEqual reports deep equality of two segments.
func SegmentEqual(a, b Segment) bool {
	switch a := a.(type) {
	case Text:
		b, ok := b.(Text)
		return ok && a == b
	case StreamingText:
		b, ok := b.(StreamingText)
		return ok && a == b
	case Code:
		b, ok := b.(Code)
		return ok && a == b
	case PartialCode:
		b, ok := b.(PartialCode)
		return ok && a == b
	case Attachments:
		b, ok := b.(Attachments)
		return ok && attachmentsEqual(a.Refs, b.Refs)
	case GeneratedImages:
		b, ok := b.(GeneratedImages)
		return ok && imagesEqual(a.Images, b.Images)
	default:
		return false
	}
}

func attachmentsEqual(a, b []llm.AttachmentRef) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func imagesEqual(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
