package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"eventageous/core"
)

// eventsPayload mirrors the upstream list shape the frontend consumes.
type eventsPayload struct {
	Events []core.Event `json:"events"`
}

type eventsResponse struct {
	Data   eventsPayload `json:"data"`
	Authed bool          `json:"authed"`
	Email  string        `json:"email"`
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.SendString("OK")
}

// handleEvents fetches and normalizes upcoming events, annotated with the
// requesting session's authentication status. Upstream failures surface as a
// 502 with a structured body; they never take down the process.
func (s *Server) handleEvents(c fiber.Ctx) error {
	window := core.UpcomingYear(time.Now())

	events, err := s.events.Events(c.Context(), window)
	if err != nil {
		s.logger.Error("events fetch failed", "err", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to fetch upstream events",
		})
	}

	email, authed := s.sessions.AuthenticatedEmail(c.Cookies(sessionCookie))

	return c.JSON(eventsResponse{
		Data:   eventsPayload{Events: events},
		Authed: authed,
		Email:  email,
	})
}

// handleLogin starts a login attempt: it binds a fresh CSRF state to the
// session and redirects to the provider's authorize URL.
func (s *Server) handleLogin(c fiber.Ctx) error {
	handle := c.Cookies(sessionCookie)

	if s.sessions.IsAuthenticated(handle) {
		s.logger.Info("already logged in, skipping provider auth")
		return c.Redirect().Status(fiber.StatusTemporaryRedirect).To("/")
	}

	if _, err := s.sessions.Get(handle); err != nil {
		var createErr error
		handle, _, createErr = s.sessions.Create()
		if createErr != nil {
			s.logger.Error("session create failed", "err", createErr)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create session",
			})
		}
		s.setSessionCookie(c, handle)
	}

	authURL, state, err := s.flow.GenerateAuthURL()
	if err != nil {
		s.logger.Error("auth url generation failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to start login",
		})
	}

	if err := s.sessions.SetAuthState(handle, state); err != nil {
		s.logger.Error("failed to bind login state to session", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to start login",
		})
	}

	return c.Redirect().Status(fiber.StatusTemporaryRedirect).To(authURL)
}

// handleCallback completes a login attempt. Every terminal failure redirects
// back to the start without committing a session; the pending state is
// consumed up front so it can never validate twice.
func (s *Server) handleCallback(c fiber.Ctx) error {
	home := func() error {
		return c.Redirect().Status(fiber.StatusTemporaryRedirect).To("/")
	}

	handle := c.Cookies(sessionCookie)
	code := c.Query("code")
	state := c.Query("state")

	expected, ok := s.sessions.TakeAuthState(handle)
	if !ok {
		s.logger.Error("callback without pending login state")
		return home()
	}

	if !s.flow.ValidateState(state, expected) {
		s.logger.Error("login aborted", "err", core.ErrCSRFMismatch)
		return home()
	}

	token, err := s.flow.ExchangeCode(c.Context(), code)
	if err != nil {
		s.logger.Error("login aborted", "err", err)
		return home()
	}

	email, err := s.identity.ResolveEmail(c.Context(), token)
	if err != nil {
		s.logger.Error("login aborted", "err", err)
		return home()
	}

	user := &core.User{
		ID:    uuid.NewString(),
		Email: email,
		Token: token,
	}
	if err := s.sessions.Commit(handle, user); err != nil {
		s.logger.Error("session commit failed", "err", err)
		return home()
	}

	s.logger.Info("login complete", "user", user)
	return home()
}

func (s *Server) setSessionCookie(c fiber.Ctx, handle string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    handle,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
