package gateway_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tahadhari/tahadhari/gateway"
	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/provider/providertest"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

var _ = Describe("Gateway", func() {
	var (
		fake *providertest.Provider
		gw   *gateway.Gateway
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = providertest.New("Stay away from the river.")
		gw = gateway.New(fake, gateway.Models{Text: "text-model", Vision: "vision-model"}, nil)
	})

	Describe("BuildRequest", func() {
		It("sends a vision exchange as text plus an image block", func() {
			img := llm.Image{MediaType: "image/jpeg", Data: jpegHeader}
			req := gw.BuildRequest(llm.VisionExchange{Text: "flood status", Lang: llm.LanguagePrimary, Image: img})

			Expect(req.Model).To(Equal("vision-model"))
			Expect(req.Stream).To(BeFalse())
			Expect(req.Temperature).To(Equal(0.7))
			Expect(req.MaxTokens).To(Equal(1024))
			Expect(req.Messages).To(HaveLen(2))

			Expect(req.System()).To(Equal("You are a helpful assistant. Respond in English."))

			user, ok := req.LastUser()
			Expect(ok).To(BeTrue())
			Expect(user.Content).To(HaveLen(2))
			Expect(user.Content[0]).To(Equal(llm.NewTextBlock("flood status")))
			Expect(user.Content[1].Type).To(Equal(llm.BlockImage))
			Expect(user.Content[1].Image.Data).To(Equal(jpegHeader))
		})

		It("sends a text exchange as a single text block", func() {
			req := gw.BuildRequest(llm.TextExchange{Text: "flood status", Lang: llm.LanguagePrimary})

			Expect(req.Model).To(Equal("text-model"))
			user, ok := req.LastUser()
			Expect(ok).To(BeTrue())
			Expect(user.Content).To(Equal([]llm.ContentBlock{llm.NewTextBlock("flood status")}))
			Expect(user.Images()).To(BeEmpty())
		})

		It("keeps an empty prompt as an empty text block beside the image", func() {
			req := gw.BuildRequest(llm.VisionExchange{Lang: llm.LanguagePrimary, Image: llm.Image{Data: jpegHeader}})

			user, _ := req.LastUser()
			Expect(user.Content).To(HaveLen(2))
			Expect(user.Content[0].Text).To(BeEmpty())
		})

		It("uses the Kiswahili instruction for the secondary language", func() {
			req := gw.BuildRequest(llm.TextExchange{Text: "hali ya mafuriko", Lang: llm.LanguageSecondary})
			Expect(req.System()).To(Equal("Wewe ni msaidizi anayeongea Kiswahili sanifu. Jibu maswali yote kwa Kiswahili."))
		})
	})

	Describe("Complete", func() {
		It("returns the provider text after exactly one call", func() {
			text, err := gw.Complete(ctx, llm.TextExchange{Text: "hello", Lang: llm.LanguagePrimary})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("Stay away from the river."))
			Expect(fake.Calls()).To(Equal(1))
		})

		It("passes an empty reply through", func() {
			fake.Reply = ""
			text, err := gw.Complete(ctx, llm.TextExchange{Text: "hello", Lang: llm.LanguagePrimary})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})

		It("maps provider errors to ErrGenerationFailed without retrying", func() {
			cause := errors.New("rate limited")
			fake = providertest.Failing(cause)
			gw = gateway.New(fake, gateway.Models{}, nil)

			_, err := gw.Complete(ctx, llm.TextExchange{Text: "hello", Lang: llm.LanguagePrimary})
			Expect(err).To(MatchError(gateway.ErrGenerationFailed))
			Expect(errors.Is(err, cause)).To(BeTrue())
			Expect(fake.Calls()).To(Equal(1))
		})

		It("falls back to the default models", func() {
			gw = gateway.New(fake, gateway.Models{}, nil)
			_, err := gw.Complete(ctx, llm.TextExchange{Text: "hello", Lang: llm.LanguagePrimary})
			Expect(err).NotTo(HaveOccurred())
			Expect(fake.Requests()[0].Model).To(Equal(gateway.DefaultTextModel))
		})
	})
})
