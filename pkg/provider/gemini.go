package provider

import "time"

// geminiBaseURL is Gemini's OpenAI-compatible endpoint.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// NewGeminiProvider creates a Gemini provider on the OpenAI-compatible API.
// baseURL may be empty to use the public endpoint. The API key is required.
func NewGeminiProvider(baseURL, apiKey string, timeout time.Duration) (*OpenAIProvider, error) {
	return NewOpenAIProvider(TypeGemini, orDefault(baseURL, geminiBaseURL), apiKey, timeout)
}
