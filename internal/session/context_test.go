package session

import (
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	sid := uuid.New()
	app := fiber.New()
	app.Get("/with", func(c *fiber.Ctx) error {
		Set(c, &models.User{ID: 42, Username: "alice"}, sid)

		user, err := CurrentUser(c)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		id, err := UserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
		assert.Equal(t, sid, ID(c))
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/without", func(c *fiber.Ctx) error {
		_, err := CurrentUser(c)
		assert.ErrorIs(t, err, ErrNoUser)
		_, err = UserID(c)
		assert.ErrorIs(t, err, ErrNoUser)
		assert.Equal(t, uuid.Nil, ID(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, path := range []string{"/with", "/without"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
}
