package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
)

// LeaseRequest is used for both create and patch. Omitted fields stay nil.
// rentAmount accepts a JSON number or a numeric string.
type LeaseRequest struct {
	Name        *string          `json:"name"`
	StartDate   *string          `json:"startDate"`
	EndDate     *string          `json:"endDate"`
	RentAmount  *decimal.Decimal `json:"rentAmount"`
	Status      *string          `json:"status"`
	DocumentURL *string          `json:"documentUrl"`
	TenantEmail *string          `json:"tenantEmail"`
}

// Input converts the request to the service input.
func (r LeaseRequest) Input() service.LeaseInput {
	return service.LeaseInput{
		Name:        r.Name,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		RentAmount:  r.RentAmount,
		Status:      r.Status,
		DocumentURL: r.DocumentURL,
		TenantEmail: r.TenantEmail,
	}
}

// LeaseResponse is the JSON view of a lease.
type LeaseResponse struct {
	ID          string             `json:"id"`
	Name        *string            `json:"name"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     time.Time          `json:"endDate"`
	RentAmount  string             `json:"rentAmount"`
	Status      domain.LeaseStatus `json:"status"`
	DocumentURL *string            `json:"documentUrl"`
	TenantID    string             `json:"tenantId"`
	Tenant      *TenantSummary     `json:"tenant,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// URLResponse is {"url": ...}.
type URLResponse struct {
	URL string `json:"url"`
}

// OKResponse is {"ok": true}.
type OKResponse struct {
	OK bool `json:"ok"`
}

func NewLeaseResponse(l *domain.Lease) LeaseResponse {
	return LeaseResponse{
		ID:          l.ID,
		Name:        l.Name,
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		RentAmount:  l.RentAmount.StringFixed(2),
		Status:      l.Status,
		DocumentURL: l.DocumentURL,
		TenantID:    l.TenantID,
		Tenant:      newTenantSummary(l.Tenant),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func NewLeaseList(leases []domain.Lease) []LeaseResponse {
	out := make([]LeaseResponse, 0, len(leases))
	for i := range leases {
		out = append(out, NewLeaseResponse(&leases[i]))
	}
	return out
}
