package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const tokenLocal = "session_token"

// SessionRequired verifies the session cookie and loads the session's user.
// Revoked or expired sessions are rejected even when the token itself is
// still valid.
func SessionRequired(cfg *config.Config, auth *services.AuthService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.SessionSecret)},
		TokenLookup: "cookie:" + cfg.SessionCookieName,
		ContextKey:  tokenLocal,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenLocal).(*jwt.Token)
			if !ok {
				return unauthenticated(c)
			}
			user, sess, err := auth.ResolveSession(c.UserContext(), token)
			if err != nil {
				if errors.Is(err, services.ErrSessionInvalid) {
					return unauthenticated(c)
				}
				return err
			}
			session.Set(c, user, sess.ID)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthenticated(c)
		},
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Not authenticated",
	})
}
