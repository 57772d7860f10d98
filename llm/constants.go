package llm

// Role identifies the author of an input item.
type Role string

const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) String() string {
	return string(r)
}

// ContentType identifies the payload carried by a content part.
type ContentType string

const (
	ContentTypeText  ContentType = "input_text"
	ContentTypeImage ContentType = "input_image"
	ContentTypeFile  ContentType = "input_file"
)

func (t ContentType) String() string {
	return string(t)
}
