package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/store"
)

const (
	metadataUserID         = "userId"
	eventCheckoutCompleted = "checkout.session.completed"
	checkoutSuccessPath    = "/subscription-success"
	checkoutCancelPath     = "/subscribe"
)

var (
	ErrPaymentsDisabled = errors.New("payments are not configured")
	ErrMissingSignature = errors.New("missing stripe signature")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

type CustomerParams struct {
	UserID string
	Email  string
	Name   string
}

type CheckoutParams struct {
	UserID     string
	CustomerID string
	SuccessURL string
	CancelURL  string
}

// WebhookEvent is a verified payment event. UserID comes from the checkout
// session metadata and is empty for other event types.
type WebhookEvent struct {
	Type   string
	UserID string
}

type PaymentGateway interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type SubscriptionService struct {
	users   store.UserStore
	gateway PaymentGateway
}

// NewSubscriptionService accepts a nil gateway; every payment operation then
// fails with ErrPaymentsDisabled.
func NewSubscriptionService(users store.UserStore, gateway PaymentGateway) *SubscriptionService {
	return &SubscriptionService{users: users, gateway: gateway}
}

func (s *SubscriptionService) Enabled() bool {
	return s.gateway != nil
}

// CreateCheckout returns the hosted checkout URL for the premium upgrade,
// creating the payment customer on the user's first attempt.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, userID uint, baseURL string) (string, error) {
	if s.gateway == nil {
		return "", ErrPaymentsDisabled
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	id := strconv.FormatUint(uint64(user.ID), 10)
	customerID := ""
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	}
	if customerID == "" {
		params := CustomerParams{UserID: id, Name: user.DisplayName}
		if params.Name == "" {
			params.Name = user.Username
		}
		if user.Email != nil {
			params.Email = *user.Email
		}
		customerID, err = s.gateway.CreateCustomer(ctx, params)
		if err != nil {
			return "", err
		}
		if _, err := s.users.UpdateStripeCustomerID(ctx, user.ID, customerID); err != nil {
			return "", fmt.Errorf("failed to store customer id: %w", err)
		}
	}

	base := strings.TrimRight(baseURL, "/")
	return s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		UserID:     id,
		CustomerID: customerID,
		SuccessURL: base + checkoutSuccessPath,
		CancelURL:  base + checkoutCancelPath,
	})
}

// HandleWebhook grants lifetime premium access when a checkout completes.
// Other event types are acknowledged and ignored.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return ErrPaymentsDisabled
	}

	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if event.Type != eventCheckoutCompleted {
		return nil
	}

	userID, err := strconv.ParseUint(event.UserID, 10, 64)
	if err != nil || userID == 0 {
		slog.Warn("checkout completed without a usable user id", "user_id", event.UserID)
		return nil
	}

	if _, err := s.users.UpdateSubscription(ctx, uint(userID), true, nil); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("checkout completed for unknown user", "user_id", userID)
			return nil
		}
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	slog.Info("subscription activated", "user_id", userID)
	return nil
}

func (s *SubscriptionService) Status(ctx context.Context, userID uint) (*dto.SubscriptionStatusResponse, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &dto.SubscriptionStatusResponse{
		IsSubscribed:       user.IsSubscribed,
		SubscriptionExpiry: user.SubscriptionExpiry,
	}, nil
}
