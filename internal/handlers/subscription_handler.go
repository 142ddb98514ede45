package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) CreateCheckout(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	url, err := h.subscriptions.CreateCheckout(c.UserContext(), userID, c.BaseURL())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentsDisabled):
			return unavailable(c, "Payments are not configured")
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		default:
			slog.Error("checkout creation failed", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create checkout session",
			})
		}
	}
	return c.JSON(dto.CheckoutResponse{URL: url})
}

// Webhook receives signed payment events. The raw body is needed for
// signature verification.
func (h *SubscriptionHandler) Webhook(c *fiber.Ctx) error {
	err := h.subscriptions.HandleWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentsDisabled):
			return unavailable(c, "Payments are not configured")
		case errors.Is(err, services.ErrMissingSignature):
			return badRequest(c, "Missing Stripe signature")
		case errors.Is(err, services.ErrInvalidSignature):
			slog.Warn("webhook signature verification failed", "error", err)
			return badRequest(c, "Webhook signature verification failed")
		default:
			return err
		}
	}
	return c.JSON(dto.WebhookAck{Received: true})
}

func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	status, err := h.subscriptions.Status(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return err
	}
	return c.JSON(status)
}
