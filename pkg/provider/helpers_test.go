package provider

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/gomega"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

// upstream is a fake provider endpoint that records request bodies.
type upstream struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []map[string]any
	paths  []string
}

func newUpstream(status int, reply string) *upstream {
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		u.mu.Lock()
		u.bodies = append(u.bodies, body)
		u.paths = append(u.paths, r.URL.Path)
		u.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	return u
}

func (u *upstream) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.bodies)
}

func (u *upstream) lastBody() map[string]any {
	u.mu.Lock()
	defer u.mu.Unlock()
	Expect(u.bodies).NotTo(BeEmpty())
	return u.bodies[len(u.bodies)-1]
}

func (u *upstream) lastPath() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	Expect(u.paths).NotTo(BeEmpty())
	return u.paths[len(u.paths)-1]
}

func textRequest(prompt string) *llm.ChatRequest {
	return &llm.ChatRequest{
		Model: "llama3-8b-8192",
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: []llm.ContentBlock{llm.NewTextBlock("You are a helpful assistant. Respond in English.")}},
			{Role: llm.RoleUser, Content: []llm.ContentBlock{llm.NewTextBlock(prompt)}},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

func visionRequest(prompt string) *llm.ChatRequest {
	req := textRequest(prompt)
	req.Model = "llama-3.2-90b-vision-preview"
	req.Messages[1].Content = append(req.Messages[1].Content,
		llm.NewImageBlock(llm.Image{MediaType: "image/png", Data: pngBytes}))
	return req
}
