package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/carnage999-max/ultimate-app-manager/internal/config"
)

var (
	// ErrNotConfigured is returned when no processor key is configured.
	ErrNotConfigured = errors.New("payment processor not configured")
	// ErrInvalidSignature is returned for webhook payloads that fail verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Webhook event types the ledger reacts to.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// Intent is a created payment intent.
type Intent struct {
	ID           string
	ClientSecret string
}

// WebhookEvent is a verified processor notification.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
	UserID   string
}

// Processor creates payment intents and verifies webhooks.
type Processor interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, userID string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// StripeProcessor talks to Stripe through a single shared client.
type StripeProcessor struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProcessor builds the Stripe client once.
func NewStripeProcessor(cfg config.PaymentsConfig) (*StripeProcessor, error) {
	if cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	return &StripeProcessor{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amountCents int64, currency, userID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (p *StripeProcessor) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return parseWebhook(payload, signature, p.webhookSecret)
}

func parseWebhook(payload []byte, signature, secret string) (*WebhookEvent, error) {
	if signature == "" || secret == "" {
		return nil, ErrInvalidSignature
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Type != EventIntentSucceeded && event.Type != EventIntentFailed {
		return out, nil
	}
	if event.Data == nil {
		return nil, fmt.Errorf("%s: missing data", event.Type)
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	out.IntentID = pi.ID
	out.UserID = pi.Metadata["userId"]
	return out, nil
}

// Unconfigured rejects every call with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) CreateIntent(context.Context, int64, string, string) (*Intent, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) ParseWebhook([]byte, string) (*WebhookEvent, error) {
	return nil, ErrInvalidSignature
}
