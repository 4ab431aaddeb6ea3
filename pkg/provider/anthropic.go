package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
}

// NewAnthropicProvider creates an Anthropic provider. baseURL may be empty to
// use the SDK default.
func NewAnthropicProvider(baseURL, apiKey string, timeout time.Duration) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{client: &client}, nil
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return string(TypeAnthropic) }

// Complete implements Provider.
func (p *AnthropicProvider) Complete(ctx context.Context, req *llm.ChatRequest) (string, error) {
	system, turns := splitRequest(req)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		Messages:    convertToAnthropicMessages(turns),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}

// convertToAnthropicMessages converts user and assistant turns. System
// messages are expected to be split off beforehand.
func convertToAnthropicMessages(messages []llm.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
		for _, b := range msg.Content {
			switch b.Type {
			case llm.BlockText:
				// The Messages API rejects empty text blocks.
				if b.Text == "" {
					continue
				}
				blocks = append(blocks, anthropic.NewTextBlock(b.Text))
			case llm.BlockImage:
				blocks = append(blocks, anthropic.NewImageBlockBase64(b.Image.MediaType, b.Image.Base64()))
			}
		}

		if msg.Role == llm.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}

	return out
}
