package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/static"

	"eventageous/config"
	"eventageous/core"
)

// sessionCookie carries the opaque session handle. Lax is required so the
// cookie is sent on the provider's top-level redirect back to the callback.
const sessionCookie = "eventageous_session"

// Server is the HTTP layer. It is the only place where component failures
// are turned into status codes or redirects; everything below it returns
// typed errors.
type Server struct {
	cfg      *config.Config
	events   core.EventSource
	flow     core.LoginFlow
	identity core.IdentityResolver
	sessions core.SessionStore
	logger   *slog.Logger
	app      *fiber.App
}

func New(
	cfg *config.Config,
	events core.EventSource,
	flow core.LoginFlow,
	identity core.IdentityResolver,
	sessions core.SessionStore,
	log *slog.Logger,
) *Server {
	app := fiber.New()
	app.Use(logger.New())

	s := &Server{
		cfg:      cfg,
		events:   events,
		flow:     flow,
		identity: identity,
		sessions: sessions,
		logger:   log,
		app:      app,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/api/events", s.handleEvents)
	s.app.Get("/auth/login", s.handleLogin)
	s.app.Get("/auth/callback", s.handleCallback)

	// Frontend build output; everything the API does not claim.
	if s.cfg.StaticDir != "" {
		s.app.Get("/*", static.New(s.cfg.StaticDir))
	}
}

// App exposes the underlying fiber app, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.ListenAddr)
}
