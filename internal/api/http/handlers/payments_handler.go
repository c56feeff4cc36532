package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/dto"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

const stripeSignatureHeader = "Stripe-Signature"

// PaymentsHandler exposes payment intents and the processor webhook.
type PaymentsHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

func NewPaymentsHandler(payments *service.PaymentService, logger *zap.Logger) *PaymentsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentsHandler{payments: payments, logger: logger}
}

// CreateIntent POST /payments/create-intent.
func (h *PaymentsHandler) CreateIntent(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	intent, err := h.payments.CreateIntent(c.UserContext(), id, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(dto.CreateIntentResponse{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID})
}

// List GET /payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	list, err := h.payments.List(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPaymentList(list))
}

// Webhook POST /payments/webhook. The signature covers the raw body, so it
// must be read before any parsing.
func (h *PaymentsHandler) Webhook(c *fiber.Ctx) error {
	signature := c.Get(stripeSignatureHeader)
	if signature == "" {
		return apperrors.NewValidationError("Webhook Error: missing signature", nil)
	}
	payload := append([]byte(nil), c.Body()...)

	res, err := h.payments.HandleWebhook(c.UserContext(), payload, signature)
	if err != nil {
		return err
	}
	h.logger.Info("payment webhook processed", zap.String("type", res.EventType))
	return c.JSON(dto.WebhookResponse{Received: true})
}
