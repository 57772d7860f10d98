// Package llm defines the unified request model consumed by the
// streaming pipeline. Conversation management produces these values; the
// pipeline passes them through to the wire format untouched.
package llm

// Request describes one streaming generation call.
type Request struct {
	// Model is the model identifier, required.
	Model string `json:"model"`

	// Instructions is a system/developer message inserted into the
	// model's context.
	Instructions string `json:"instructions,omitempty"`

	// Messages is the ordered, role-tagged conversation input.
	Messages []Message `json:"messages"`

	// MaxOutputTokens caps the response token budget.
	MaxOutputTokens *int64 `json:"max_output_tokens,omitempty"`

	// Temperature is the sampling temperature.
	Temperature *float64 `json:"temperature,omitempty"`

	// PreviousResponseID threads this request onto the prior turn.
	// Populated from the session context, not by callers.
	PreviousResponseID *string `json:"previous_response_id,omitempty"`

	// Stream requests an SSE response. The pipeline always streams.
	Stream *bool `json:"stream,omitempty"`
}

// Message is one role-tagged input item.
type Message struct {
	Role    Role          `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is a single piece of message content.
type ContentPart struct {
	Type ContentType `json:"type"`

	// Text is set for ContentTypeText parts.
	Text string `json:"text,omitempty"`

	// ImageURL is set for ContentTypeImage parts. Data URLs are allowed.
	ImageURL string `json:"image_url,omitempty"`

	// FileID and Filename are set for ContentTypeFile parts.
	FileID   string `json:"file_id,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// NewTextMessage builds a single-part text message.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentPart{{Type: ContentTypeText, Text: text}},
	}
}
