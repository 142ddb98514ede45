package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	defaultProductName        = "MindJournal Premium"
	defaultProductDescription = "Lifetime access to premium features"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceCents    int64
	ProductName   string
}

// StripeGateway sells the one-time premium upgrade through Stripe Checkout.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	priceCents    int64
	productName   string
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	if cfg.PriceCents <= 0 {
		cfg.PriceCents = 300
	}
	if cfg.ProductName == "" {
		cfg.ProductName = defaultProductName
	}
	return &StripeGateway{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
		priceCents:    cfg.PriceCents,
		productName:   cfg.ProductName,
	}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	p := &stripe.CustomerParams{
		Name: stripe.String(params.Name),
	}
	if params.Email != "" {
		p.Email = stripe.String(params.Email)
	}
	p.Context = ctx
	p.AddMetadata(metadataUserID, params.UserID)

	customer, err := g.api.Customers.New(p)
	if err != nil {
		return "", fmt.Errorf("stripe customer: %w", err)
	}
	return customer.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error) {
	p := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(g.productName),
						Description: stripe.String(defaultProductDescription),
					},
					UnitAmount: stripe.Int64(g.priceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		Customer:   stripe.String(params.CustomerID),
	}
	p.Context = ctx
	p.AddMetadata(metadataUserID, params.UserID)

	session, err := g.api.CheckoutSessions.New(p)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}
	return session.URL, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if g.webhookSecret == "" || signature == "" {
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{Type: string(event.Type)}
	if out.Type == eventCheckoutCompleted && event.Data != nil {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.UserID = session.Metadata[metadataUserID]
	}
	return out, nil
}
