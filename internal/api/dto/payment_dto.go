package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
)

// CreateIntentRequest payload. amount is in currency units, e.g. 1200.50.
type CreateIntentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// CreateIntentResponse carries what the browser needs to confirm the payment.
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// WebhookResponse acknowledges a processed webhook.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// PaymentResponse is the JSON view of a ledger entry.
type PaymentResponse struct {
	ID        string               `json:"id"`
	IntentID  string               `json:"paymentIntentId"`
	UserID    string               `json:"userId"`
	Amount    string               `json:"amount"`
	Currency  string               `json:"currency"`
	Status    domain.PaymentStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func NewPaymentList(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentResponse{
			ID:        p.ID,
			IntentID:  p.IntentID,
			UserID:    p.UserID,
			Amount:    p.Amount.StringFixed(2),
			Currency:  p.Currency,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out
}
