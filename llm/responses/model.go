// Package responses implements the client side of the Responses API
// streaming protocol: wire models, SSE event decoding, and response
// accumulation.
package responses

import "github.com/emberlink/chatstream/llm"

// Request is the wire request for Responses API creation.
type Request struct {
	Model string `json:"model"`

	// A system (or developer) message inserted into the model's context.
	Instructions string `json:"instructions,omitempty"`

	// Input is the ordered list of role-tagged input items.
	Input []InputItem `json:"input"`

	Temperature *float64 `json:"temperature,omitempty"`

	MaxOutputTokens *int64 `json:"max_output_tokens,omitempty"`

	// The unique ID of the previous response, for multi-turn conversations.
	PreviousResponseID *string `json:"previous_response_id,omitempty"`

	Stream *bool `json:"stream,omitempty"`
}

// InputItem is one role-tagged input message.
type InputItem struct {
	Role    string         `json:"role"`
	Content []InputContent `json:"content"`
}

// InputContent is one content part of an input item.
type InputContent struct {
	// Any of "input_text", "input_image", "input_file".
	Type string `json:"type"`

	// The text of the part, for input_text.
	Text string `json:"text,omitempty"`

	// The image URL (or data URL), for input_image.
	ImageURL string `json:"image_url,omitempty"`

	// The uploaded file reference, for input_file.
	FileID   string `json:"file_id,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Response is the wire response object nested in lifecycle events.
type Response struct {
	ID        string  `json:"id"`
	Object    string  `json:"object,omitempty"`
	Model     string  `json:"model,omitempty"`
	CreatedAt int64   `json:"created_at,omitempty"`
	Status    *string `json:"status,omitempty"`

	// OutputText is the convenience aggregation of all output text parts.
	OutputText *string `json:"output_text,omitempty"`

	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the server-side failure cause.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
}

// ConvertInputFromMessages converts unified messages to wire input items.
func ConvertInputFromMessages(messages []llm.Message) []InputItem {
	items := make([]InputItem, 0, len(messages))

	for _, message := range messages {
		item := InputItem{
			Role:    message.Role.String(),
			Content: make([]InputContent, 0, len(message.Content)),
		}

		for _, part := range message.Content {
			item.Content = append(item.Content, InputContent{
				Type:     part.Type.String(),
				Text:     part.Text,
				ImageURL: part.ImageURL,
				FileID:   part.FileID,
				Filename: part.Filename,
			})
		}

		items = append(items, item)
	}

	return items
}
