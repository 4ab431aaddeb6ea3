package llm

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}
