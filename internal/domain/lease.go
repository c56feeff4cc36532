package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaseStatus enumerates lease lifecycle states.
type LeaseStatus string

const (
	LeaseStatusActive   LeaseStatus = "ACTIVE"
	LeaseStatusInactive LeaseStatus = "INACTIVE"
	LeaseStatusEnded    LeaseStatus = "ENDED"
)

// Valid reports whether s is a known lease status.
func (s LeaseStatus) Valid() bool {
	switch s {
	case LeaseStatusActive, LeaseStatusInactive, LeaseStatusEnded:
		return true
	}
	return false
}

// Lease binds a tenant to a rental period and rent amount.
type Lease struct {
	ID          string
	Name        *string
	StartDate   time.Time
	EndDate     time.Time
	RentAmount  decimal.Decimal
	Status      LeaseStatus
	DocumentURL *string
	TenantID    string
	Tenant      *UserSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserSummary is the subset of a user embedded in lease and ticket listings.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}
