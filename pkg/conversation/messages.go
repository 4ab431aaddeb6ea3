package conversation

import "github.com/tahadhari/tahadhari/pkg/llm"

// Strings are the user-facing texts of a chat surface in one language.
type Strings struct {
	Title        string
	History      string
	Placeholder  string
	ImageStaged  string
	Send         string
	Listen       string
	Speak        string
	Loading      string
	ImageTooBig  string
	ReplyFailed  string
	SpeechFailed string
}

var localized = map[llm.Language]Strings{
	llm.LanguagePrimary: {
		Title:        "AI Assistant",
		History:      "Chat History",
		Placeholder:  "Type your message...",
		ImageStaged:  "Image selected",
		Send:         "Send",
		Listen:       "Listen",
		Speak:        "Speak",
		Loading:      "Processing your request...",
		ImageTooBig:  "Image size should be less than 5MB",
		ReplyFailed:  "Failed to generate response. Please try again.",
		SpeechFailed: "Speech recognition is not available on this system",
	},
	llm.LanguageSecondary: {
		Title:        "Msaidizi wa AI",
		History:      "Historia ya Mazungumzo",
		Placeholder:  "Andika ujumbe wako...",
		ImageStaged:  "Picha imechaguliwa",
		Send:         "Tuma",
		Listen:       "Sikiliza",
		Speak:        "Ongea",
		Loading:      "Inashughulikia ombi lako...",
		ImageTooBig:  "Ukubwa wa picha unapaswa kuwa chini ya 5MB",
		ReplyFailed:  "Imeshindwa kutoa jibu. Tafadhali jaribu tena.",
		SpeechFailed: "Utambuzi wa sauti haupatikani kwenye mfumo huu",
	},
}

// StringsFor returns the strings for lang, falling back to the primary language.
func StringsFor(lang llm.Language) Strings {
	if s, ok := localized[lang]; ok {
		return s
	}
	return localized[llm.LanguagePrimary]
}
