package llm

// AttachmentRef points at a user-supplied attachment rendered alongside
// a message. The pipeline never dereferences it.
type AttachmentRef struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	URL      string `json:"url,omitempty"`
}
