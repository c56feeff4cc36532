package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks a rent payment through the processor.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment records a payment intent created for a user.
type Payment struct {
	ID        string
	IntentID  string
	UserID    string
	Amount    decimal.Decimal
	Currency  string
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
