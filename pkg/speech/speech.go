// Package speech provides text-to-speech and single-shot dictation backed by
// locally installed programs.
package speech

import (
	"context"
	"errors"

	"golang.org/x/text/language"
)

// ErrUnsupported is returned by capabilities that are not available on this host.
var ErrUnsupported = errors.New("speech capability not supported")

// Synthesizer speaks text aloud in a locale.
type Synthesizer interface {
	Speak(ctx context.Context, text string, locale language.Tag) error
}

// Recognizer captures one utterance in a locale and returns its transcript.
type Recognizer interface {
	Listen(ctx context.Context, locale language.Tag) (string, error)
}

// Unsupported implements Synthesizer and Recognizer and always fails with ErrUnsupported.
type Unsupported struct{}

func (Unsupported) Speak(context.Context, string, language.Tag) error {
	return ErrUnsupported
}

func (Unsupported) Listen(context.Context, language.Tag) (string, error) {
	return "", ErrUnsupported
}

// Available reports whether capability is real, i.e. neither nil nor Unsupported.
func Available(capability any) bool {
	switch capability.(type) {
	case nil, Unsupported, *Unsupported:
		return false
	}
	return true
}
