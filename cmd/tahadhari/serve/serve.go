package servecmder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tahadhari/tahadhari/gateway"
	"github.com/tahadhari/tahadhari/pkg/logger"
)

const serveLongDesc string = `Run the completion gateway.

The gateway accepts exchanges on POST /chat, sends each one to the
configured inference provider and answers with the generated text.
It stops gracefully on SIGINT or SIGTERM.

Configuration is read from a TOML file when --config is given and
may be overridden with TAHADHARI_LISTEN, TAHADHARI_PROVIDER and
TAHADHARI_API_KEY. Provider API keys fall back to GROQ_API_KEY,
OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY.

Examples:
  tahadhari serve
  tahadhari serve --config /etc/tahadhari.toml --listen :9090`

const serveShortDesc string = "Run the completion gateway"

type serveCommander struct {
	configPath string
	listen     string
	debug      bool
	jsonLogs   bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML configuration file")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (overrides the config file)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json-logs", false, "Write logs as JSON")

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	log := logger.NewConsoleLogger(cmd.OutOrStdout(), c.debug)
	if c.jsonLogs {
		log = logger.NewJSONLogger(cmd.OutOrStdout(), c.debug)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := gateway.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	if c.listen != "" {
		cfg.ListenAddr = c.listen
	}

	srv, err := gateway.NewServer(cfg, log)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", cfg.ListenAddr, err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.RunWithListener(ln)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down gateway server")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("gateway server failed", zap.Error(err))
		return err
	}
	return nil
}
