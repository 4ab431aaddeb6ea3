package askcmder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tahadhari/tahadhari/cmd/tahadhari/gatewayurl"
	"github.com/tahadhari/tahadhari/pkg/client"
	"github.com/tahadhari/tahadhari/pkg/conversation"
	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/logger"
	"github.com/tahadhari/tahadhari/pkg/speech"
)

const askLongDesc string = `Ask the gateway a single question and print the reply.

An image may be attached with --image; with an image the prompt may
be empty. Replies are in English unless --lang secondary (or sw) is
given, in which case they are in Kiswahili.

Examples:
  tahadhari ask "Is the Nairobi river flooding?"
  tahadhari ask --lang sw "Hali ya mafuriko ni gani?"
  tahadhari ask --image road.jpg "What is shown here?"`

const askShortDesc string = "Ask a single question"

type askCommander struct {
	server  string
	image   string
	lang    string
	timeout time.Duration
	speak   bool
	debug   bool
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: askShortDesc,
		Long:  askLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&cmder.server, "server", "", "Gateway URL (default $TAHADHARI_SERVER or "+gatewayurl.Default+")")
	cmd.Flags().StringVarP(&cmder.image, "image", "i", "", "Path to an image to attach (at most 5MB)")
	cmd.Flags().StringVar(&cmder.lang, "lang", "primary", "Reply language: primary (en) or secondary (sw)")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", client.DefaultTimeout, "Maximum time to wait for the reply")
	cmd.Flags().BoolVar(&cmder.speak, "speak", false, "Read the reply aloud when a speech program is installed")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, prompt string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	lang, err := llm.ParseLanguage(c.lang)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), c.debug)
	defer func() { _ = log.Sync() }()

	opts := []conversation.Option{conversation.WithLogger(log)}
	if c.speak {
		opts = append(opts, conversation.WithSynthesizer(speech.DetectSynthesizer()))
	}

	gw := client.New(gatewayurl.Resolve(c.server), client.WithTimeout(c.timeout))
	ctrl := conversation.New(conversation.NewSession(lang), gw, opts...)

	if c.image != "" {
		if err := ctrl.StageImageFile(c.image); err != nil {
			if msg := ctrl.Err(); msg != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			return err
		}
	}

	reply, err := ctrl.SubmitExchange(ctx, prompt)
	if err != nil {
		if msg := ctrl.Err(); msg != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	ctrl.WaitSpeech()
	return nil
}
