package llm

// ChatRequest is a provider-neutral chat completion request. Provider adapters
// translate it into their own wire format.
type ChatRequest struct {
	Model    string    `json:"model"`    // Model name (e.g., "llama3-8b-8192")
	Messages []Message `json:"messages"` // System first, user last
	Stream   bool      `json:"stream"`   // Always false: one response per request

	// Generation options
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// System returns the text of the leading system message, if any.
func (r *ChatRequest) System() string {
	if len(r.Messages) > 0 && r.Messages[0].Role == RoleSystem {
		return r.Messages[0].Text()
	}
	return ""
}

// LastUser returns the trailing user message. ok is false when the request
// does not end with a user turn.
func (r *ChatRequest) LastUser() (Message, bool) {
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	last := r.Messages[len(r.Messages)-1]
	return last, last.Role == RoleUser
}
