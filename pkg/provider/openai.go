package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions API. Groq is
// served through it with its own base URL.
type OpenAIProvider struct {
	client  openai.Client
	name    Type
	baseURL string
}

// NewOpenAIProvider creates an OpenAI-compatible provider. The API key is required.
func NewOpenAIProvider(name Type, baseURL, apiKey string, timeout time.Duration) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	return &OpenAIProvider{
		client:  client,
		name:    name,
		baseURL: baseURL,
	}, nil
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return string(p.name) }

// Complete implements Provider with a single non-streaming completion.
func (p *OpenAIProvider) Complete(ctx context.Context, req *llm.ChatRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    ConvertToOpenAIMessages(req.Messages),
		Model:       openai.ChatModel(req.Model),
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", p.name, err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

// ConvertToOpenAIMessages converts messages to OpenAI format. A user message
// with only text is sent as a plain string; one carrying images is sent as a
// list of content parts with the images as data URLs.
func ConvertToOpenAIMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			result[i] = openai.SystemMessage(msg.Text())
		case llm.RoleAssistant:
			result[i] = openai.AssistantMessage(msg.Text())
		default:
			if len(msg.Images()) == 0 {
				result[i] = openai.UserMessage(msg.Text())
				continue
			}
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(msg.Content))
			for _, b := range msg.Content {
				switch b.Type {
				case llm.BlockText:
					parts = append(parts, openai.TextContentPart(b.Text))
				case llm.BlockImage:
					parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: b.Image.DataURL(),
					}))
				}
			}
			result[i] = openai.UserMessage(parts)
		}
	}

	return result
}
