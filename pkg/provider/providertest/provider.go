// Package providertest provides a recording Provider for tests.
package providertest

import (
	"context"
	"sync"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// Provider records every request and answers through CompleteFunc.
type Provider struct {
	// CompleteFunc produces the reply. Defaults to returning Reply.
	CompleteFunc func(ctx context.Context, req *llm.ChatRequest) (string, error)

	// Reply is returned by the default CompleteFunc.
	Reply string

	mu       sync.Mutex
	requests []*llm.ChatRequest
}

// New returns a provider that always answers reply.
func New(reply string) *Provider {
	return &Provider{Reply: reply}
}

// Failing returns a provider whose every call fails with err.
func Failing(err error) *Provider {
	return &Provider{
		CompleteFunc: func(context.Context, *llm.ChatRequest) (string, error) {
			return "", err
		},
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "test" }

// Complete implements provider.Provider.
func (p *Provider) Complete(ctx context.Context, req *llm.ChatRequest) (string, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.CompleteFunc != nil {
		return p.CompleteFunc(ctx, req)
	}
	return p.Reply, nil
}

// Requests returns the requests seen so far.
func (p *Provider) Requests() []*llm.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*llm.ChatRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// Calls returns the number of Complete calls.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}
