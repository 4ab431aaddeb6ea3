package conversation

import (
	"errors"

	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/speech"
)

var (
	// ErrImageTooLarge is returned when a staged image exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds 5 MiB")

	// ErrEmptyExchange is returned when there is neither text nor an image to send.
	ErrEmptyExchange = llm.ErrEmptyExchange

	// ErrExchangeInFlight is returned when a submission arrives while a reply is awaited.
	ErrExchangeInFlight = errors.New("an exchange is already in flight")

	// ErrSpeechUnavailable is returned by Dictate when no recognizer is configured.
	ErrSpeechUnavailable = errors.New("speech recognition unavailable")

	// ErrAlreadyListening is returned when a dictation is already running.
	ErrAlreadyListening = errors.New("dictation already in progress")
)

// Kind classifies errors returned by a Controller.
type Kind int

const (
	KindNone Kind = iota
	KindImageTooLarge
	KindEmptyExchange
	KindExchangeInFlight
	KindGatewayUnavailable
	KindProviderFailure
	KindSpeechUnavailable
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindImageTooLarge:
		return "image_too_large"
	case KindEmptyExchange:
		return "empty_exchange"
	case KindExchangeInFlight:
		return "exchange_in_flight"
	case KindGatewayUnavailable:
		return "gateway_unavailable"
	case KindProviderFailure:
		return "provider_failure"
	case KindSpeechUnavailable:
		return "speech_unavailable"
	}
	return "other"
}

// KindOf returns the kind of err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrImageTooLarge):
		return KindImageTooLarge
	case errors.Is(err, ErrEmptyExchange):
		return KindEmptyExchange
	case errors.Is(err, ErrExchangeInFlight):
		return KindExchangeInFlight
	case errors.Is(err, llm.ErrGatewayUnavailable):
		return KindGatewayUnavailable
	case errors.Is(err, llm.ErrProviderFailure):
		return KindProviderFailure
	case errors.Is(err, ErrSpeechUnavailable), errors.Is(err, speech.ErrUnsupported):
		return KindSpeechUnavailable
	}
	return KindOther
}
