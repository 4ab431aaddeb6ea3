package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoUtterance is returned when the dictation program printed nothing.
var ErrNoUtterance = errors.New("no speech recognized")

// LocaleEnv carries the BCP 47 locale to dictation programs.
const LocaleEnv = "SPEECH_LOCALE"

// CommandSynthesizer speaks text by piping it to a TTS program.
type CommandSynthesizer struct {
	// Path is the program to run.
	Path string

	// Args builds the argument list for a locale.
	Args func(locale language.Tag) []string
}

// Speak runs the program with text on stdin and waits for it to finish.
func (s *CommandSynthesizer) Speak(ctx context.Context, text string, locale language.Tag) error {
	var args []string
	if s.Args != nil {
		args = s.Args(locale)
	}

	cmd := exec.CommandContext(ctx, s.Path, args...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w: %s", s.Path, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// espeakArgs selects the espeak voice for the locale's base language and reads
// text from stdin.
func espeakArgs(locale language.Tag) []string {
	base, _ := locale.Base()
	return []string{"-v", base.String(), "--stdin"}
}

// sayArgs lets say pick the default voice; it reads text from stdin.
func sayArgs(language.Tag) []string {
	return nil
}

var synthesizers = []struct {
	name string
	args func(language.Tag) []string
}{
	{"espeak-ng", espeakArgs},
	{"espeak", espeakArgs},
	{"say", sayArgs},
}

// DetectSynthesizer returns a CommandSynthesizer for the first TTS program
// found on PATH, or Unsupported when none is installed.
func DetectSynthesizer() Synthesizer {
	for _, s := range synthesizers {
		if path, err := exec.LookPath(s.name); err == nil {
			return &CommandSynthesizer{Path: path, Args: s.args}
		}
	}
	return Unsupported{}
}

// CommandRecognizer runs a dictation program and takes the first non-empty
// line it prints as the utterance.
type CommandRecognizer struct {
	Path string
	Args []string
}

// NewCommandRecognizer parses a command line such as "whisper-dictate --once".
// An empty command line yields Unsupported.
func NewCommandRecognizer(commandLine string) Recognizer {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return Unsupported{}
	}
	return &CommandRecognizer{Path: fields[0], Args: fields[1:]}
}

// Listen runs the program with SPEECH_LOCALE set to locale.
func (r *CommandRecognizer) Listen(ctx context.Context, locale language.Tag) (string, error) {
	cmd := exec.CommandContext(ctx, r.Path, r.Args...)
	cmd.Env = append(os.Environ(), LocaleEnv+"="+locale.String())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w: %s", r.Path, err, strings.TrimSpace(stderr.String()))
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", ErrNoUtterance
}
