package gateway

import "github.com/tahadhari/tahadhari/pkg/llm"

// Generation parameters shared by every exchange.
const (
	Temperature = 0.7
	MaxTokens   = 1024
)

var systemInstructions = map[llm.Language]string{
	llm.LanguagePrimary:   "You are a helpful assistant. Respond in English.",
	llm.LanguageSecondary: "Wewe ni msaidizi anayeongea Kiswahili sanifu. Jibu maswali yote kwa Kiswahili.",
}

// SystemInstruction returns the fixed instruction asking the model to reply in lang.
func SystemInstruction(lang llm.Language) string {
	if s, ok := systemInstructions[lang]; ok {
		return s
	}
	return systemInstructions[llm.LanguagePrimary]
}
