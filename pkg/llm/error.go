// Package llm provides the internal representations of chat exchanges, provider
// requests and the JSON bodies exchanged with the gateway.
package llm

import "errors"

// ErrorResponse represents an error body returned by the gateway.
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	// ErrEmptyExchange is returned when an exchange carries neither text nor an image.
	ErrEmptyExchange = errors.New("exchange has neither prompt nor image")

	// ErrInvalidImage is returned when the image payload is not valid base64.
	ErrInvalidImage = errors.New("image is not valid base64")

	// ErrUnknownLanguage is returned for language values outside the supported set.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrGatewayUnavailable means the gateway could not be reached at all.
	ErrGatewayUnavailable = errors.New("gateway unavailable")

	// ErrProviderFailure means the gateway answered but produced no usable reply.
	ErrProviderFailure = errors.New("provider failure")
)
