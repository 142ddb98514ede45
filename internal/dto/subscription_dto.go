package dto

import "time"

type CheckoutResponse struct {
	URL string `json:"url"`
}

type SubscriptionStatusResponse struct {
	IsSubscribed       bool       `json:"isSubscribed"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
