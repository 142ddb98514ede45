package handlers

import (
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/journal"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type InsightsHandler struct {
	journal *journal.Service
}

func NewInsightsHandler(journal *journal.Service) *InsightsHandler {
	return &InsightsHandler{journal: journal}
}

// Overview serves the premium insights page: theme distribution, emotion
// timeline and derived insights.
func (h *InsightsHandler) Overview(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	overview, err := h.journal.Overview(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(overview)
}
