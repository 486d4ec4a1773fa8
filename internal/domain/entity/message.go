package entity

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image_url"
)

// ContentBlock is one part of a multimodal message. ImageURL is usually a
// data: URL.
type ContentBlock struct {
	Type     ContentType
	Text     string
	ImageURL string
}

type Message struct {
	Role          MessageRole
	Content       string
	ContentBlocks []ContentBlock
}
