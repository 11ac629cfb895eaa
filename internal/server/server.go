// Package server exposes devstreaks reports as a JSON API for the mobile
// client.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/blackwell-systems/devstreaks/internal/report"
	"github.com/blackwell-systems/devstreaks/internal/store"
)

// ProfileStore persists the tracked usernames.
type ProfileStore interface {
	GetProfile(name string) (store.Profile, error)
	SaveProfile(p store.Profile) (store.Profile, error)
}

// Server wires report and profile handlers into a fiber app.
type Server struct {
	app      *fiber.App
	svc      *report.Service
	profiles ProfileStore
	logger   *slog.Logger
}

// New builds a Server. A nil logger discards request logs.
func New(svc *report.Service, profiles ProfileStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		svc:      svc,
		profiles: profiles,
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "devstreaks",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          s.handleError,
		// Params and query values outlive the request as cache keys.
		Immutable: true,
	})
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	s.app.Use(requestLogger(logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api")
	api.Get("/reports/:platform/:username", s.getReport)
	api.Get("/dashboard", s.getDashboard)
	api.Get("/profile", s.getProfile)
	api.Put("/profile", s.putProfile)
	api.Get("/repos/:username", s.getRepos)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = statusFor(err)
			}
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.UserContext(), level, "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"ip", c.IP(),
			"latency", time.Since(start),
		)
		return err
	}
}
