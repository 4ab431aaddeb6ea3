// Package conversation drives one chat session: it stages user input, submits
// exchanges to a gateway and keeps the transcript and surfaced errors.
package conversation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/logger"
	"github.com/tahadhari/tahadhari/pkg/speech"
	"github.com/tahadhari/tahadhari/pkg/transcript"
)

// MaxImageSize is the largest image that may be staged, in bytes.
const MaxImageSize = 5 * 1024 * 1024

// State is the exchange state of a Controller.
type State string

const (
	StateReady    State = "ready"
	StateAwaiting State = "awaiting"
)

// Completer performs one exchange against a gateway. client.Client implements it.
type Completer interface {
	Complete(ctx context.Context, req llm.ExchangeRequest) (string, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSynthesizer speaks every reply. Without it replies are not spoken.
func WithSynthesizer(s speech.Synthesizer) Option {
	return func(c *Controller) { c.synth = s }
}

// WithRecognizer enables Dictate.
func WithRecognizer(r speech.Recognizer) Option {
	return func(c *Controller) { c.recog = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithPreviewRef replaces the generator of local image preview references.
func WithPreviewRef(f func() string) Option {
	return func(c *Controller) { c.previewRef = f }
}

// StagedImage is an image selected for the next exchange.
type StagedImage struct {
	Ref  transcript.ImageRef
	Data []byte
}

// Controller owns the transcript and staged input of one session. At most one
// exchange is in flight at a time; further submissions are rejected.
type Controller struct {
	session    *Session
	completer  Completer
	synth      speech.Synthesizer
	recog      speech.Recognizer
	logger     *zap.Logger
	previewRef func() string

	mu         sync.Mutex
	state      State
	listening  bool
	prompt     string
	image      *StagedImage
	transcript *transcript.Transcript
	errMsg     string

	speaking sync.WaitGroup
}

// New creates a Controller in the ready state with an empty transcript.
func New(session *Session, completer Completer, opts ...Option) *Controller {
	c := &Controller{
		session:    session,
		completer:  completer,
		synth:      speech.Unsupported{},
		recog:      speech.Unsupported{},
		logger:     zap.NewNop(),
		previewRef: func() string { return "blob:" + uuid.NewString() },
		state:      StateReady,
		transcript: transcript.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StageImage selects an image for the next exchange, replacing any staged one.
// Images over MaxImageSize are rejected and leave the staged input untouched.
func (c *Controller) StageImage(name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(data) > MaxImageSize {
		c.errMsg = c.session.Strings().ImageTooBig
		c.logger.Debug("rejected image",
			zap.String("name", name),
			zap.Int("size", len(data)),
		)
		return fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, name, len(data))
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	c.image = &StagedImage{
		Ref: transcript.ImageRef{
			Preview:   c.previewRef(),
			Name:      name,
			MediaType: llm.SniffImageType(buf),
			Size:      len(buf),
		},
		Data: buf,
	}
	c.errMsg = ""
	return nil
}

// StageImageFile reads path and stages its contents.
func (c *Controller) StageImageFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}
	if info.Size() > MaxImageSize {
		c.mu.Lock()
		c.errMsg = c.session.Strings().ImageTooBig
		c.mu.Unlock()
		return fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	return c.StageImage(filepath.Base(path), data)
}

// ClearImage drops the staged image.
func (c *Controller) ClearImage() {
	c.mu.Lock()
	c.image = nil
	c.mu.Unlock()
}

// SetPrompt replaces the staged text.
func (c *Controller) SetPrompt(text string) {
	c.mu.Lock()
	c.prompt = text
	c.mu.Unlock()
}

// Prompt returns the staged text.
func (c *Controller) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt
}

// Staged returns the staged image, or nil when none is staged.
func (c *Controller) Staged() *StagedImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.image == nil {
		return nil
	}
	img := *c.image
	return &img
}

// SubmitExchange sends promptText and the staged image as one exchange and
// blocks until the reply arrives. The user entry is appended before the call
// and kept when the call fails.
func (c *Controller) SubmitExchange(ctx context.Context, promptText string) (string, error) {
	c.mu.Lock()
	if c.state == StateAwaiting {
		c.mu.Unlock()
		return "", ErrExchangeInFlight
	}

	img := c.image
	if strings.TrimSpace(promptText) == "" && img == nil {
		c.mu.Unlock()
		return "", ErrEmptyExchange
	}

	var ref *transcript.ImageRef
	var data []byte
	if img != nil {
		ref = &img.Ref
		data = img.Data
	}
	lang := c.session.Language()

	c.transcript.Append(transcript.AuthorUser, promptText, ref)
	c.prompt = ""
	c.image = nil
	c.errMsg = ""
	c.state = StateAwaiting
	c.mu.Unlock()

	c.logger.Debug("submitting exchange",
		zap.String("language", string(lang)),
		zap.Bool("image", data != nil),
		zap.String("prompt_preview", logger.Preview(promptText, 50)),
	)

	reply, err := c.completer.Complete(ctx, llm.NewExchangeRequest(promptText, lang, data))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateReady

	if err != nil {
		c.errMsg = StringsFor(c.session.Language()).ReplyFailed
		c.logger.Error("exchange failed",
			zap.String("kind", KindOf(err).String()),
			zap.Error(err),
		)
		return "", err
	}

	c.transcript.Append(transcript.AuthorAssistant, reply, nil)
	if err := c.transcript.Verify(); err != nil {
		c.logger.Error("transcript chain broken", zap.Error(err))
	}
	c.speak(reply)
	return reply, nil
}

// speak says reply in the background. Speech failures are only logged.
func (c *Controller) speak(reply string) {
	if !speech.Available(c.synth) || strings.TrimSpace(reply) == "" {
		return
	}

	locale := c.session.Locale()
	c.speaking.Add(1)
	go func() {
		defer c.speaking.Done()
		if err := c.synth.Speak(context.Background(), reply, locale); err != nil {
			c.logger.Warn("speech output failed", zap.Error(err))
		}
	}()
}

// WaitSpeech blocks until replies being spoken have finished.
func (c *Controller) WaitSpeech() {
	c.speaking.Wait()
}

// Dictate captures one utterance and replaces the staged text with it.
func (c *Controller) Dictate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if !speech.Available(c.recog) {
		c.errMsg = c.session.Strings().SpeechFailed
		c.mu.Unlock()
		return "", ErrSpeechUnavailable
	}
	if c.listening {
		c.mu.Unlock()
		return "", ErrAlreadyListening
	}
	c.listening = true
	locale := c.session.Locale()
	c.mu.Unlock()

	text, err := c.recog.Listen(ctx, locale)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.listening = false

	if err != nil {
		c.errMsg = c.session.Strings().SpeechFailed
		c.logger.Warn("dictation failed", zap.Error(err))
		return "", fmt.Errorf("dictation: %w", err)
	}

	c.prompt = text
	return text, nil
}

// State returns the exchange state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Listening reports whether a dictation is running.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// Transcript returns a copy of the transcript entries, oldest first.
func (c *Controller) Transcript() []transcript.Entry {
	return c.transcript.Entries()
}

// Summary describes the transcript for status lines and logs.
type Summary struct {
	Entries int
	Prompts int
	Replies int

	// Head is the hash of the latest entry, empty for an empty transcript.
	Head string
}

// Summary returns counts and the head hash of the transcript.
func (c *Controller) Summary() Summary {
	s := Summary{
		Entries: c.transcript.Len(),
		Prompts: c.transcript.Count(transcript.AuthorUser),
		Replies: c.transcript.Count(transcript.AuthorAssistant),
	}
	if head, ok := c.transcript.Head(); ok {
		s.Head = head.Hash
	}
	return s
}

// Err returns the currently surfaced message, or "" when there is none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Session returns the session the controller reads its language from.
func (c *Controller) Session() *Session {
	return c.session
}
