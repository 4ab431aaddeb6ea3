package conversation_test

import (
	"context"
	"sync"

	"golang.org/x/text/language"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// fakeCompleter records requests. When gate is set each call blocks until a
// value is sent on it.
type fakeCompleter struct {
	mu       sync.Mutex
	requests []llm.ExchangeRequest
	reply    string
	err      error
	gate     chan struct{}
	entered  chan struct{}
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.ExchangeRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeCompleter) calls() []llm.ExchangeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.ExchangeRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

type spoken struct {
	text   string
	locale language.Tag
}

type fakeSynthesizer struct {
	said chan spoken
	err  error
}

func (f *fakeSynthesizer) Speak(_ context.Context, text string, locale language.Tag) error {
	f.said <- spoken{text: text, locale: locale}
	return f.err
}

type fakeRecognizer struct {
	text    string
	err     error
	gate    chan struct{}
	entered chan struct{}
	locales []language.Tag
}

func (f *fakeRecognizer) Listen(_ context.Context, locale language.Tag) (string, error) {
	f.locales = append(f.locales, locale)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.text, f.err
}
