package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	userKey      = "current_user"
	sessionIDKey = "session_id"
)

var ErrNoUser = errors.New("no authenticated user in context")

// Set stores the authenticated user and session on the request.
func Set(c *fiber.Ctx, user *models.User, sessionID uuid.UUID) {
	c.Locals(userKey, user)
	c.Locals(sessionIDKey, sessionID)
}

// CurrentUser extracts the user stored by the session middleware.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoUser
	}
	return user, nil
}

// UserID is a shorthand for CurrentUser(c).ID.
func UserID(c *fiber.Ctx) (uint, error) {
	user, err := CurrentUser(c)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// ID returns the current session id, or uuid.Nil outside a session.
func ID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(sessionIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
