package main

import (
	"os"

	"github.com/spf13/cobra"

	askcmder "github.com/tahadhari/tahadhari/cmd/tahadhari/ask"
	chatcmder "github.com/tahadhari/tahadhari/cmd/tahadhari/chat"
	servecmder "github.com/tahadhari/tahadhari/cmd/tahadhari/serve"
)

const rootLongDesc string = `tahadhari is the assistant behind the disaster alert dashboard.

"serve" runs the completion gateway in front of an inference provider.
"ask" and "chat" talk to a running gateway in English or Kiswahili.`

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tahadhari",
		Short:         "Disaster alert chat assistant",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())

	return cmd
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
