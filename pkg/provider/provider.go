// Package provider adapts provider-neutral chat requests to hosted inference
// APIs. Each adapter performs exactly one upstream call per Complete and never
// retries; the transport timeout is the only deadline it adds.
package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// Provider generates assistant text for a chat request.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Complete sends req upstream and returns the first text content, or ""
	// when the provider returned no content.
	Complete(ctx context.Context, req *llm.ChatRequest) (string, error)
}

// Type identifies the provider implementation.
type Type string

const (
	TypeGroq      Type = "groq"
	TypeOpenAI    Type = "openai"
	TypeAnthropic Type = "anthropic"
	TypeGemini    Type = "gemini"
	TypeOllama    Type = "ollama"
)

// DefaultTimeout bounds a single upstream request when no timeout is configured.
const DefaultTimeout = 60 * time.Second

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openAIBaseURL = "https://api.openai.com/v1"
	ollamaBaseURL = "http://localhost:11434"
)

// Config holds provider-specific configuration.
type Config struct {
	Type           Type   `toml:"type"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the configured transport timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APIKeyEnv returns the environment variable conventionally holding the API key
// for the provider type.
func (t Type) APIKeyEnv() string {
	switch t {
	case TypeGroq:
		return "GROQ_API_KEY"
	case TypeOpenAI:
		return "OPENAI_API_KEY"
	case TypeAnthropic:
		return "ANTHROPIC_API_KEY"
	case TypeGemini:
		return "GEMINI_API_KEY"
	}
	return ""
}

// ResolveAPIKey returns the configured key or, when empty, the key found in the
// provider's conventional environment variable.
func (c Config) ResolveAPIKey() string {
	if k := strings.TrimSpace(c.APIKey); k != "" {
		return k
	}
	if env := c.Type.APIKeyEnv(); env != "" {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}

// New creates a provider from config.
func New(cfg Config) (Provider, error) {
	switch cfg.Type {
	case TypeGroq, "":
		return NewOpenAIProvider(TypeGroq, orDefault(cfg.BaseURL, groqBaseURL), cfg.ResolveAPIKey(), cfg.Timeout())
	case TypeOpenAI:
		return NewOpenAIProvider(TypeOpenAI, orDefault(cfg.BaseURL, openAIBaseURL), cfg.ResolveAPIKey(), cfg.Timeout())
	case TypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.ResolveAPIKey(), cfg.Timeout())
	case TypeGemini:
		return NewGeminiProvider(cfg.BaseURL, cfg.ResolveAPIKey(), cfg.Timeout())
	case TypeOllama:
		return NewOllamaProvider(orDefault(cfg.BaseURL, ollamaBaseURL), cfg.Timeout())
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimRight(v, "/")
}

// splitRequest separates the system instruction from the conversational
// messages. Every adapter needs this because the APIs place the system text
// differently.
func splitRequest(req *llm.ChatRequest) (system string, turns []llm.Message) {
	for _, m := range req.Messages {
		if m.Role == llm.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Text()
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
