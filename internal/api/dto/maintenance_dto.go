package dto

import (
	"time"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
)

// CreateTicketRequest payload. Attachments are decoded loosely so that
// non-string entries can be dropped instead of failing the request.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Attachments []any  `json:"attachments"`
}

func (r CreateTicketRequest) Input() service.TicketCreateInput {
	return service.TicketCreateInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Attachments: domain.SanitizeAttachments(r.Attachments),
	}
}

// UpdateTicketRequest payload. Omitted fields stay nil.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Attachments *[]any  `json:"attachments"`
}

func (r UpdateTicketRequest) Input() service.TicketUpdateInput {
	in := service.TicketUpdateInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
	}
	if r.Attachments != nil {
		attachments := domain.SanitizeAttachments(*r.Attachments)
		in.Attachments = &attachments
	}
	return in
}

// TicketResponse is the JSON view of a maintenance ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	Attachments []string              `json:"attachments"`
	TenantID    string                `json:"tenantId"`
	Tenant      *TenantSummary        `json:"tenant,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

func NewTicketResponse(t *domain.MaintenanceTicket) TicketResponse {
	attachments := t.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Attachments: attachments,
		TenantID:    t.TenantID,
		Tenant:      newTenantSummary(t.Tenant),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewTicketList(tickets []domain.MaintenanceTicket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}
