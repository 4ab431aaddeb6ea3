package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language selects the reply language of an exchange and the speech locale.
type Language string

const (
	// LanguagePrimary is English.
	LanguagePrimary Language = "primary"

	// LanguageSecondary is Kiswahili.
	LanguageSecondary Language = "secondary"
)

var (
	tagPrimary   = language.MustParse("en-US")
	tagSecondary = language.MustParse("sw-KE")
)

// ParseLanguage accepts the wire values "primary" and "secondary" as well as
// the short codes "en" and "sw".
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "en":
		return LanguagePrimary, nil
	case "secondary", "sw":
		return LanguageSecondary, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == LanguagePrimary || l == LanguageSecondary
}

// Tag returns the BCP 47 locale used for speech capture and synthesis.
func (l Language) Tag() language.Tag {
	if l == LanguageSecondary {
		return tagSecondary
	}
	return tagPrimary
}

// Code returns the two letter language code ("en" or "sw").
func (l Language) Code() string {
	base, _ := l.Tag().Base()
	return base.String()
}

func (l *Language) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*l = ""
		return nil
	}
	parsed, err := ParseLanguage(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
