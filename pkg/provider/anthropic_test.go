package provider

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const anthropicReply = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-test",
  "content": [{"type": "text", "text": "Evacuate to the school."}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`

var _ = Describe("AnthropicProvider", func() {
	var up *upstream

	AfterEach(func() {
		if up != nil {
			up.Close()
		}
	})

	It("requires an API key", func() {
		_, err := NewAnthropicProvider("", "", time.Second)
		Expect(err).To(HaveOccurred())
	})

	It("moves the system instruction out of the messages", func() {
		up = newUpstream(200, anthropicReply)
		p, err := NewAnthropicProvider(up.URL, "test-key", time.Second)
		Expect(err).NotTo(HaveOccurred())

		out, err := p.Complete(context.Background(), visionRequest("where do I go?"))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Evacuate to the school."))

		body := up.lastBody()
		system := body["system"].([]any)
		Expect(system[0].(map[string]any)["text"]).To(Equal("You are a helpful assistant. Respond in English."))
		Expect(body["max_tokens"]).To(BeNumerically("==", 1024))

		msgs := body["messages"].([]any)
		Expect(msgs).To(HaveLen(1))
		content := msgs[0].(map[string]any)["content"].([]any)
		Expect(content).To(HaveLen(2))
		Expect(content[1].(map[string]any)["type"]).To(Equal("image"))
		source := content[1].(map[string]any)["source"].(map[string]any)
		Expect(source["media_type"]).To(Equal("image/png"))
	})

	It("drops empty text blocks", func() {
		up = newUpstream(200, anthropicReply)
		p, _ := NewAnthropicProvider(up.URL, "test-key", time.Second)

		_, err := p.Complete(context.Background(), visionRequest(""))
		Expect(err).NotTo(HaveOccurred())

		msgs := up.lastBody()["messages"].([]any)
		content := msgs[0].(map[string]any)["content"].([]any)
		Expect(content).To(HaveLen(1))
		Expect(content[0].(map[string]any)["type"]).To(Equal("image"))
	})

	It("makes exactly one call when the upstream fails", func() {
		up = newUpstream(500, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
		p, _ := NewAnthropicProvider(up.URL, "test-key", time.Second)

		_, err := p.Complete(context.Background(), textRequest("hi"))
		Expect(err).To(HaveOccurred())
		Expect(up.calls()).To(Equal(1))
	})
})
