package conversation

import (
	"sync"

	"golang.org/x/text/language"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// Session holds the user's language choice. It is shared by everything that
// needs to know the current language and is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	lang llm.Language
}

// NewSession creates a session in lang. Unsupported values select the primary language.
func NewSession(lang llm.Language) *Session {
	if !lang.Valid() {
		lang = llm.LanguagePrimary
	}
	return &Session{lang: lang}
}

// Language returns the current language.
func (s *Session) Language() llm.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the language for subsequent exchanges and speech.
func (s *Session) SetLanguage(lang llm.Language) error {
	if !lang.Valid() {
		return llm.ErrUnknownLanguage
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	return nil
}

// Locale returns the speech locale for the current language.
func (s *Session) Locale() language.Tag {
	return s.Language().Tag()
}

// Strings returns the UI strings for the current language.
func (s *Session) Strings() Strings {
	return StringsFor(s.Language())
}
