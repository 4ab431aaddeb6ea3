package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// OllamaProvider talks to an Ollama server through its /api/chat endpoint.
type OllamaProvider struct {
	client *api.Client
}

// NewOllamaProvider creates a provider for the Ollama server at baseURL.
func NewOllamaProvider(baseURL string, timeout time.Duration) (*OllamaProvider, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaProvider{
		client: api.NewClient(parsedURL, &http.Client{Timeout: timeout}),
	}, nil
}

// Name implements Provider.
func (p *OllamaProvider) Name() string { return string(TypeOllama) }

// Complete implements Provider with a single non-streaming chat call.
func (p *OllamaProvider) Complete(ctx context.Context, req *llm.ChatRequest) (string, error) {
	var content string
	respFunc := func(resp api.ChatResponse) error {
		content += resp.Message.Content
		return nil
	}

	if err := p.client.Chat(ctx, convertToOllamaRequest(req), respFunc); err != nil {
		return "", fmt.Errorf("ollama completion: %w", err)
	}
	return content, nil
}

func convertToOllamaRequest(req *llm.ChatRequest) *api.ChatRequest {
	streaming := false

	out := &api.ChatRequest{
		Model:    req.Model,
		Messages: make([]api.Message, 0, len(req.Messages)),
		Stream:   &streaming,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}

	for _, m := range req.Messages {
		om := api.Message{Role: m.Role, Content: m.Text()}
		for _, img := range m.Images() {
			om.Images = append(om.Images, api.ImageData(img.Data))
		}
		out.Messages = append(out.Messages, om)
	}

	return out
}
