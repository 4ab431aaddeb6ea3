package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/provider"
)

// Server exposes a Gateway over HTTP.
type Server struct {
	config  Config
	gateway *Gateway
	logger  *zap.Logger
	server  *fiber.App
}

// NewServer creates a Server for config, building its provider from config.Provider.
func NewServer(config Config, logger *zap.Logger) (*Server, error) {
	p, err := provider.New(config.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	logger.Info("using provider",
		zap.String("provider", p.Name()),
		zap.String("text_model", config.Models.Text),
		zap.String("vision_model", config.Models.Vision),
	)
	return NewServerWithProvider(config, p, logger), nil
}

// NewServerWithProvider creates a Server around an existing provider.
func NewServerWithProvider(config Config, p provider.Provider, logger *zap.Logger) *Server {
	bodyLimit := config.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
	})

	s := &Server{
		config:  config,
		gateway: New(p, config.Models, logger),
		logger:  logger,
		server:  app,
	}

	app.Post("/chat", s.handleChat)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.server
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting gateway server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("provider", s.gateway.provider.Name()),
	)
	return s.server.Listen(s.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting gateway server", zap.String("listen", ln.Addr().String()))
	return s.server.Listener(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// handleChat validates the body and runs one exchange. Invalid bodies never
// reach the provider.
func (s *Server) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	var req llm.ExchangeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Warn("failed to parse request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	ex, err := req.Exchange()
	if err != nil {
		s.logger.Warn("rejected exchange", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	text, err := s.gateway.Complete(c.UserContext(), ex)
	if err != nil {
		if !errors.Is(err, ErrGenerationFailed) {
			s.logger.Error("unexpected gateway error", zap.Error(err))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "Failed to generate response"})
	}

	s.logger.Info("exchange completed",
		zap.String("language", string(ex.Language())),
		zap.Bool("image", isVision(ex)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return c.JSON(llm.ChatResponse{Response: text})
}

func isVision(ex llm.Exchange) bool {
	_, ok := ex.(llm.VisionExchange)
	return ok
}
