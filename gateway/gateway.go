// Package gateway turns exchanges into provider requests and serves them over HTTP.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/logger"
	"github.com/tahadhari/tahadhari/pkg/provider"
)

// ErrGenerationFailed is returned for any provider failure. The wrapped cause
// is for logs only.
var ErrGenerationFailed = errors.New("failed to generate response")

// Gateway builds one provider request per exchange and returns the reply text.
// It keeps no state between calls.
type Gateway struct {
	provider provider.Provider
	models   Models
	logger   *zap.Logger
}

// New creates a Gateway. Empty model names fall back to the defaults.
func New(p provider.Provider, models Models, logger *zap.Logger) *Gateway {
	if models.Text == "" {
		models.Text = DefaultTextModel
	}
	if models.Vision == "" {
		models.Vision = DefaultVisionModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{provider: p, models: models, logger: logger}
}

// Complete performs exactly one provider call for ex.
func (g *Gateway) Complete(ctx context.Context, ex llm.Exchange) (string, error) {
	startTime := time.Now()
	req := g.BuildRequest(ex)

	g.logger.Debug("sending completion request",
		zap.String("provider", g.provider.Name()),
		zap.String("model", req.Model),
		zap.String("language", string(ex.Language())),
		zap.String("prompt_preview", logger.Preview(ex.Prompt(), 50)),
	)

	text, err := g.provider.Complete(ctx, req)
	if err != nil {
		g.logger.Error("provider request failed",
			zap.String("provider", g.provider.Name()),
			zap.String("model", req.Model),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	g.logger.Debug("received completion",
		zap.String("model", req.Model),
		zap.String("content_preview", logger.Preview(text, 100)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return text, nil
}

// BuildRequest returns the provider request for ex: the language's system
// instruction followed by a single user message.
func (g *Gateway) BuildRequest(ex llm.Exchange) *llm.ChatRequest {
	req := &llm.ChatRequest{
		Stream:      false,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}
	system := llm.Message{
		Role:    llm.RoleSystem,
		Content: []llm.ContentBlock{llm.NewTextBlock(SystemInstruction(ex.Language()))},
	}

	switch e := ex.(type) {
	case llm.VisionExchange:
		req.Model = g.models.Vision
		req.Messages = []llm.Message{system, {
			Role: llm.RoleUser,
			Content: []llm.ContentBlock{
				llm.NewTextBlock(e.Text),
				llm.NewImageBlock(e.Image),
			},
		}}
	case llm.TextExchange:
		req.Model = g.models.Text
		req.Messages = []llm.Message{system, {
			Role:    llm.RoleUser,
			Content: []llm.ContentBlock{llm.NewTextBlock(e.Text)},
		}}
	default:
		panic(fmt.Sprintf("gateway: unhandled exchange type %T", ex))
	}

	return req
}
