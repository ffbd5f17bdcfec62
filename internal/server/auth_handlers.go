package server

import (
	"errors"
	"time"

	"penlight/internal/middleware"
	"penlight/internal/models"
	"penlight/internal/session"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) sessionCookie(token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.IsProduction(),
		Path:     "/",
	}
}

// Login handles POST /api/login. On success it sets the HTTP-only
// session cookie; the token is never exposed to page scripts.
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.sessions.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Invalid username or password"))
		}
		middleware.Logger.ErrorContext(c.UserContext(), "login failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	c.Cookie(s.sessionCookie(token, time.Now().Add(s.config.SessionTTL())))
	return c.JSON(fiber.Map{"authenticated": true})
}

// Logout handles POST /api/logout. Revokes the session server-side and
// expires the cookie. Logging out without a session is not an error.
func (s *Server) Logout(c *fiber.Ctx) error {
	ctx := c.Context()

	if token := c.Cookies(SessionCookie); token != "" {
		if err := s.sessions.Logout(ctx, token); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "logout failed", "error", err)
		}
	}

	c.Cookie(s.sessionCookie("", time.Now().Add(-time.Hour)))
	return c.JSON(fiber.Map{"authenticated": false})
}

// AuthCheck handles GET /api/auth/check. Always 200; the body reports
// whether the cookie maps to a live session.
func (s *Server) AuthCheck(c *fiber.Ctx) error {
	ctx := c.Context()

	_, err := s.sessions.Validate(ctx, c.Cookies(SessionCookie))
	if err != nil {
		if !errors.Is(err, session.ErrUnauthenticated) {
			middleware.Logger.WarnContext(c.UserContext(), "session check failed", "error", err)
		}
		return c.JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{"authenticated": true})
}
