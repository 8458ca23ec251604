// Package web provides a small status dashboard for the merchant channel.
package web

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/tavernworks/go-merchant/pkg/channel"
	"github.com/tavernworks/go-merchant/pkg/shop"
)

// Server exposes the channel state, scrollback log, and catalog over HTTP.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	controller *channel.Controller
	store      *shop.Shop
}

// NewServer creates the dashboard server.
func NewServer(port string, controller *channel.Controller, store *shop.Shop) *Server {
	s := &Server{
		port:       port,
		logger:     slog.Default().With("component", "web"),
		controller: controller,
		store:      store,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Merchant Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/log", s.handleLog)
	api.Get("/catalog", s.handleCatalog)

	s.app = app
	return s
}

// Start starts the web server and blocks.
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "url", fmt.Sprintf("http://localhost:%s", s.port))
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
