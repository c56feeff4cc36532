package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/events"
	"github.com/carnage999-max/ultimate-app-manager/internal/payments"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

var hundred = decimal.NewFromInt(100)

// MaxIntentAmount is the largest single charge accepted, in currency units.
var MaxIntentAmount = decimal.RequireFromString("999999.99")

// PaymentService creates payment intents and keeps the payment ledger in sync.
type PaymentService struct {
	payments   repository.PaymentRepository
	processor  payments.Processor
	authz      policy.Authorizer
	dispatcher events.Dispatcher
	currency   string
	logger     *zap.Logger
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	PaymentRepo repository.PaymentRepository
	Processor   payments.Processor
	Authorizer  policy.Authorizer
	Dispatcher  events.Dispatcher
	Currency    string
	Logger      *zap.Logger
}

// WebhookResult reports what a processed webhook changed.
type WebhookResult struct {
	EventType string
	Payment   *domain.Payment
}

func NewPaymentService(deps PaymentDependencies) *PaymentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	processor := deps.Processor
	if processor == nil {
		processor = payments.Unconfigured{}
	}
	currency := deps.Currency
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		payments:   deps.PaymentRepo,
		processor:  processor,
		authz:      deps.Authorizer,
		dispatcher: deps.Dispatcher,
		currency:   currency,
		logger:     logger,
	}
}

// ToMinorUnits converts an amount in currency units to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// CreateIntent starts a payment of amount for the caller and records it as PENDING.
func (s *PaymentService) CreateIntent(ctx context.Context, id domain.Identity, amount *decimal.Decimal) (*payments.Intent, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionPaymentCreate, policy.Resource{Kind: policy.KindPayment}); err != nil {
		return nil, err
	}
	if amount == nil {
		return nil, apperrors.NewValidationError("amount is required", map[string]any{"field": "amount"})
	}
	if amount.GreaterThan(MaxIntentAmount) {
		return nil, apperrors.NewValidationError("amount is too large", map[string]any{"field": "amount", "max": MaxIntentAmount.StringFixed(2)})
	}
	cents := ToMinorUnits(*amount)
	if cents < 1 {
		return nil, apperrors.NewValidationError("amount must be positive", map[string]any{"field": "amount"})
	}

	intent, err := s.processor.CreateIntent(ctx, cents, s.currency, id.UserID)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("payments", err)
	}

	record := &domain.Payment{
		IntentID: intent.ID,
		UserID:   id.UserID,
		Amount:   decimal.New(cents, -2),
		Currency: s.currency,
		Status:   domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, record); err != nil {
		s.logger.Error("record payment intent failed", zap.String("intent_id", intent.ID), zap.Error(err))
	}
	return intent, nil
}

// HandleWebhook verifies a processor notification and updates the ledger.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.processor.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			return nil, apperrors.NewValidationError("Webhook Error: invalid signature", nil)
		}
		return nil, apperrors.NewValidationError("Webhook Error: "+err.Error(), nil)
	}

	result := &WebhookResult{EventType: event.Type}
	var (
		status    domain.PaymentStatus
		eventType events.EventType
	)
	switch event.Type {
	case payments.EventIntentSucceeded:
		status, eventType = domain.PaymentStatusSucceeded, events.EventPaymentSucceeded
	case payments.EventIntentFailed:
		status, eventType = domain.PaymentStatusFailed, events.EventPaymentFailed
	default:
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
		return result, nil
	}

	payment, err := s.payments.UpdateStatusByIntent(ctx, event.IntentID, status)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
		s.logger.Warn("webhook for unknown payment intent", zap.String("intent_id", event.IntentID))
	}
	result.Payment = payment

	eventPayload := events.PaymentPayload{IntentID: event.IntentID, UserID: event.UserID}
	if payment != nil {
		eventPayload.Amount = payment.Amount.StringFixed(2)
		eventPayload.Currency = payment.Currency
	}
	publish(ctx, s.dispatcher, s.logger, events.New(eventType, event.UserID, eventPayload))
	return result, nil
}

// List returns every payment to admins and only their own to tenants.
func (s *PaymentService) List(ctx context.Context, id domain.Identity) ([]domain.Payment, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionPaymentList, policy.Resource{Kind: policy.KindPayment}); err != nil {
		return nil, err
	}
	if id.IsAdmin() {
		return s.payments.List(ctx, nil)
	}
	return s.payments.List(ctx, &id.UserID)
}
