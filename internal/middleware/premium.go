package middleware

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// SubscriptionRequired gates premium routes. It must run after SessionRequired.
func SubscriptionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := session.CurrentUser(c)
		if err != nil {
			return unauthenticated(c)
		}
		if !user.HasActiveSubscription(time.Now()) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Subscription required",
			})
		}
		return c.Next()
	}
}
