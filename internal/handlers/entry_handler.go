package handlers

import (
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/journal"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type EntryHandler struct {
	journal *journal.Service
}

func NewEntryHandler(journal *journal.Service) *EntryHandler {
	return &EntryHandler{journal: journal}
}

func (h *EntryHandler) List(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	list, err := h.journal.ListEntries(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *EntryHandler) Starred(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entries, err := h.journal.ListStarred(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (h *EntryHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	entryID, err := entryIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid entry ID")
	}

	entry, err := h.journal.GetEntryForUser(c.UserContext(), userID, entryID)
	if err != nil {
		return journalError(c, err)
	}
	return c.JSON(entry)
}

func (h *EntryHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.journal.CreateEntry(c.UserContext(), userID, &req)
	if err != nil {
		return journalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *EntryHandler) Update(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	entryID, err := entryIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid entry ID")
	}
	var req dto.UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, err := h.journal.UpdateEntry(c.UserContext(), userID, entryID, &req)
	if err != nil {
		return journalError(c, err)
	}
	return c.JSON(entry)
}

func (h *EntryHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	entryID, err := entryIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid entry ID")
	}

	if err := h.journal.DeleteEntry(c.UserContext(), userID, entryID); err != nil {
		return journalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EntryHandler) ToggleStar(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	entryID, err := entryIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid entry ID")
	}

	entry, err := h.journal.ToggleStar(c.UserContext(), userID, entryID)
	if err != nil {
		return journalError(c, err)
	}
	return c.JSON(entry)
}

func (h *EntryHandler) SetClarity(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	entryID, err := entryIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid entry ID")
	}
	var req dto.ClarityRequest
	if err := c.BodyParser(&req); err != nil || req.Rating == nil {
		return badRequest(c, "Rating is required")
	}

	entry, err := h.journal.SetClarity(c.UserContext(), userID, entryID, *req.Rating)
	if err != nil {
		return journalError(c, err)
	}
	return c.JSON(entry)
}

func entryIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// journalError maps journal sentinels to responses. Anything else goes to
// the app error handler as a 500.
func journalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, journal.ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Entry not found",
		})
	case errors.Is(err, journal.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden",
		})
	case errors.Is(err, journal.ErrInvalidEntry), errors.Is(err, journal.ErrInvalidClarity):
		return badRequest(c, err.Error())
	default:
		return err
	}
}
