package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	args := m.Called(payload, signature)
	event, _ := args.Get(0).(*WebhookEvent)
	return event, args.Error(1)
}

func seedUser(t *testing.T, mem *store.MemoryStore, username string) *models.User {
	t.Helper()
	email := username + "@example.com"
	user := &models.User{Username: username, DisplayName: "Display " + username, Email: &email}
	require.NoError(t, mem.CreateUser(context.Background(), user))
	return user
}

func TestCreateCheckoutCreatesCustomerOnce(t *testing.T) {
	mem := store.NewMemoryStore()
	user := seedUser(t, mem, "alice")
	gw := new(mockGateway)
	svc := NewSubscriptionService(mem, gw)
	ctx := context.Background()

	gw.On("CreateCustomer", mock.Anything, CustomerParams{
		UserID: "1",
		Email:  "alice@example.com",
		Name:   "Display alice",
	}).Return("cus_123", nil).Once()
	gw.On("CreateCheckoutSession", mock.Anything, CheckoutParams{
		UserID:     "1",
		CustomerID: "cus_123",
		SuccessURL: "https://app.example.com/subscription-success",
		CancelURL:  "https://app.example.com/subscribe",
	}).Return("https://checkout.stripe.com/pay/cs_1", nil).Twice()

	url, err := svc.CreateCheckout(ctx, user.ID, "https://app.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_1", url)

	stored, err := mem.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StripeCustomerID)
	assert.Equal(t, "cus_123", *stored.StripeCustomerID)

	_, err = svc.CreateCheckout(ctx, user.ID, "https://app.example.com")
	require.NoError(t, err)

	gw.AssertExpectations(t)
}

func TestCreateCheckoutGatewayFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	user := seedUser(t, mem, "alice")
	gw := new(mockGateway)
	svc := NewSubscriptionService(mem, gw)

	gw.On("CreateCustomer", mock.Anything, mock.Anything).Return("", errors.New("stripe down"))

	_, err := svc.CreateCheckout(context.Background(), user.ID, "http://localhost")
	assert.EqualError(t, err, "stripe down")

	stored, err := mem.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.StripeCustomerID)
}

func TestCreateCheckoutUnknownUser(t *testing.T) {
	svc := NewSubscriptionService(store.NewMemoryStore(), new(mockGateway))
	_, err := svc.CreateCheckout(context.Background(), 99, "http://localhost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPaymentsDisabled(t *testing.T) {
	svc := NewSubscriptionService(store.NewMemoryStore(), nil)
	assert.False(t, svc.Enabled())

	_, err := svc.CreateCheckout(context.Background(), 1, "http://localhost")
	assert.ErrorIs(t, err, ErrPaymentsDisabled)
	assert.ErrorIs(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"), ErrPaymentsDisabled)
}

func TestHandleWebhookActivatesSubscription(t *testing.T) {
	mem := store.NewMemoryStore()
	user := seedUser(t, mem, "alice")
	gw := new(mockGateway)
	svc := NewSubscriptionService(mem, gw)
	ctx := context.Background()

	gw.On("ParseWebhook", []byte("payload"), "sig").
		Return(&WebhookEvent{Type: eventCheckoutCompleted, UserID: "1"}, nil)

	require.NoError(t, svc.HandleWebhook(ctx, []byte("payload"), "sig"))

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, status.IsSubscribed)
	assert.Nil(t, status.SubscriptionExpiry)
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	mem := store.NewMemoryStore()
	user := seedUser(t, mem, "alice")
	gw := new(mockGateway)
	svc := NewSubscriptionService(mem, gw)
	ctx := context.Background()

	gw.On("ParseWebhook", []byte("a"), "sig").Return(&WebhookEvent{Type: "payment_intent.created"}, nil)
	gw.On("ParseWebhook", []byte("b"), "sig").Return(&WebhookEvent{Type: eventCheckoutCompleted, UserID: "abc"}, nil)
	gw.On("ParseWebhook", []byte("c"), "sig").Return(&WebhookEvent{Type: eventCheckoutCompleted, UserID: "42"}, nil)

	assert.NoError(t, svc.HandleWebhook(ctx, []byte("a"), "sig"))
	assert.NoError(t, svc.HandleWebhook(ctx, []byte("b"), "sig"))
	assert.NoError(t, svc.HandleWebhook(ctx, []byte("c"), "sig"))

	status, err := svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, status.IsSubscribed)
}

func TestHandleWebhookSignatureErrors(t *testing.T) {
	gw := new(mockGateway)
	svc := NewSubscriptionService(store.NewMemoryStore(), gw)

	gw.On("ParseWebhook", mock.Anything, "").Return(nil, ErrMissingSignature)
	gw.On("ParseWebhook", mock.Anything, "bad").Return(nil, ErrInvalidSignature)

	assert.ErrorIs(t, svc.HandleWebhook(context.Background(), []byte("{}"), ""), ErrMissingSignature)
	assert.ErrorIs(t, svc.HandleWebhook(context.Background(), []byte("{}"), "bad"), ErrInvalidSignature)
}
