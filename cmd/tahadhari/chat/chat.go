package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tahadhari/tahadhari/cmd/tahadhari/gatewayurl"
	"github.com/tahadhari/tahadhari/pkg/client"
	"github.com/tahadhari/tahadhari/pkg/conversation"
	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/logger"
	"github.com/tahadhari/tahadhari/pkg/speech"
)

const chatLongDesc string = `Start an interactive chat with the gateway.

On a terminal a full-screen interface is shown; otherwise prompts are
read line by line from stdin and replies are written to stdout.

Commands:
` + commandHelp + `

Dictation runs the program given with --dictation-cmd. It receives
the locale in $SPEECH_LOCALE (en-US or sw-KE) and must print the
recognized text. With --speak replies are read aloud through
espeak-ng, espeak or say, whichever is installed.

Examples:
  tahadhari chat
  tahadhari chat --lang sw --speak
  echo "flood status" | tahadhari chat --server http://gateway:8080`

const chatShortDesc string = "Start an interactive chat"

type chatCommander struct {
	server       string
	lang         string
	dictationCmd string
	speak        bool
	plain        bool
	timeout      time.Duration
	debug        bool
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.server, "server", "", "Gateway URL (default $TAHADHARI_SERVER or "+gatewayurl.Default+")")
	cmd.Flags().StringVar(&cmder.lang, "lang", "primary", "Language: primary (en) or secondary (sw)")
	cmd.Flags().StringVar(&cmder.dictationCmd, "dictation-cmd", "", "Program that records one utterance and prints its transcript")
	cmd.Flags().BoolVar(&cmder.speak, "speak", false, "Read replies aloud when a speech program is installed")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Use line mode even on a terminal")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", client.DefaultTimeout, "Maximum time to wait for each reply")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	lang, err := llm.ParseLanguage(c.lang)
	if err != nil {
		return err
	}

	interactive := !c.plain && isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())

	// The full-screen interface owns the terminal, so logs are discarded there.
	log := zap.NewNop()
	if !interactive {
		log = logger.NewConsoleLogger(cmd.ErrOrStderr(), c.debug)
	}
	defer func() { _ = log.Sync() }()

	opts := []conversation.Option{
		conversation.WithLogger(log),
		conversation.WithRecognizer(speech.NewCommandRecognizer(c.dictationCmd)),
	}
	if c.speak {
		opts = append(opts, conversation.WithSynthesizer(speech.DetectSynthesizer()))
	}

	gw := client.New(gatewayurl.Resolve(c.server), client.WithTimeout(c.timeout))
	ctrl := conversation.New(conversation.NewSession(lang), gw, opts...)

	if interactive {
		p := tea.NewProgram(newChatModel(ctx, ctrl),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		ctrl.WaitSpeech()
		return nil
	}

	err = runLines(ctx, ctrl, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctrl.WaitSpeech()

	summary := ctrl.Summary()
	log.Debug("chat ended",
		zap.Int("prompts", summary.Prompts),
		zap.Int("replies", summary.Replies),
		zap.String("head", logger.Preview(summary.Head, 12)),
	)
	return err
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runLines reads one prompt per line until EOF or /quit. An empty line sends
// the dictated prompt, if any.
func runLines(ctx context.Context, ctrl *conversation.Controller, in io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()

		if sc, ok := parseSlash(line); ok {
			if sc.name == "dictate" {
				text, err := ctrl.Dictate(ctx)
				if err != nil {
					fmt.Fprintln(errOut, surfaced(ctrl, err))
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", ctrl.Session().Strings().Speak, text)
				continue
			}

			notice, quit, err := applySlash(ctrl, sc)
			if err != nil {
				fmt.Fprintln(errOut, commandError(ctrl, err))
				continue
			}
			if quit {
				return nil
			}
			if notice != "" {
				fmt.Fprintln(out, notice)
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			line = ctrl.Prompt()
		}

		reply, err := ctrl.SubmitExchange(ctx, line)
		if errors.Is(err, conversation.ErrEmptyExchange) {
			continue
		}
		if err != nil {
			fmt.Fprintln(errOut, surfaced(ctrl, err))
			continue
		}
		fmt.Fprintln(out, reply)
	}

	return scanner.Err()
}

// surfaced prefers the controller's localized message over the raw error.
// Exchanges and dictation always set one when they fail.
func surfaced(ctrl *conversation.Controller, err error) string {
	if msg := ctrl.Err(); msg != "" {
		return msg
	}
	return err.Error()
}

// commandError describes a failed slash command. Only the image size check
// has a localized message.
func commandError(ctrl *conversation.Controller, err error) string {
	if conversation.KindOf(err) == conversation.KindImageTooLarge {
		return surfaced(ctrl, err)
	}
	return err.Error()
}
