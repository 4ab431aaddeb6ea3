package llm

import "encoding/base64"

// Roles used in provider messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	BlockText  = "text"
	BlockImage = "image"
)

// Message represents a single role-tagged message sent to a provider.
type Message struct {
	Role    string         `json:"role"`    // "system", "user", "assistant"
	Content []ContentBlock `json:"content"` // Ordered content blocks
}

// ContentBlock is one piece of message content: either text or an image.
type ContentBlock struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Image *Image `json:"image,omitempty"`
}

// NewTextBlock returns a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// NewImageBlock returns an image content block.
func NewImageBlock(img Image) ContentBlock {
	return ContentBlock{Type: BlockImage, Image: &img}
}

// Text concatenates every text block of the message.
func (m Message) Text() string {
	var out string
	for _, b := range m.Content {
		if b.Type == BlockText {
			out += b.Text
		}
	}
	return out
}

// Images returns the image blocks of the message in order.
func (m Message) Images() []Image {
	var out []Image
	for _, b := range m.Content {
		if b.Type == BlockImage && b.Image != nil {
			out = append(out, *b.Image)
		}
	}
	return out
}

// Image is a binary image payload with its media type.
type Image struct {
	MediaType string `json:"media_type"`
	Data      []byte `json:"data"`
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL, as accepted by OpenAI-compatible APIs.
func (i Image) DataURL() string {
	return "data:" + i.MediaType + ";base64," + i.Base64()
}
