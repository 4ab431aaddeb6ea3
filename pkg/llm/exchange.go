package llm

import "strings"

// ExchangeRequest is the JSON body of POST /chat.
type ExchangeRequest struct {
	Prompt   string   `json:"prompt"`
	Language Language `json:"language"`
	Image    string   `json:"image,omitempty"` // base64, optional
}

// Exchange is one user submission. It is either a TextExchange or a
// VisionExchange; no other implementations exist.
type Exchange interface {
	Prompt() string
	Language() Language
	exchange()
}

// TextExchange carries only a prompt.
type TextExchange struct {
	Text string
	Lang Language
}

func (e TextExchange) Prompt() string     { return e.Text }
func (e TextExchange) Language() Language { return e.Lang }
func (TextExchange) exchange()            {}

// VisionExchange carries a prompt, possibly empty, and an image.
type VisionExchange struct {
	Text  string
	Lang  Language
	Image Image
}

func (e VisionExchange) Prompt() string     { return e.Text }
func (e VisionExchange) Language() Language { return e.Lang }
func (VisionExchange) exchange()            {}

// Exchange validates the request and returns its typed variant.
func (r ExchangeRequest) Exchange() (Exchange, error) {
	lang := r.Language
	if lang == "" {
		lang = LanguagePrimary
	}
	if !lang.Valid() {
		return nil, ErrUnknownLanguage
	}

	if strings.TrimSpace(r.Image) != "" {
		img, err := DecodeImage(r.Image)
		if err != nil {
			return nil, err
		}
		return VisionExchange{Text: r.Prompt, Lang: lang, Image: img}, nil
	}

	if strings.TrimSpace(r.Prompt) == "" {
		return nil, ErrEmptyExchange
	}
	return TextExchange{Text: r.Prompt, Lang: lang}, nil
}

// NewExchangeRequest builds the wire form of an exchange.
func NewExchangeRequest(prompt string, lang Language, image []byte) ExchangeRequest {
	req := ExchangeRequest{Prompt: prompt, Language: lang}
	if len(image) > 0 {
		req.Image = Image{Data: image}.Base64()
	}
	return req
}
