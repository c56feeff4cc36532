package domain

import (
	"strings"
	"time"
)

// MaxTicketAttachments caps the attachment list of a maintenance ticket.
const MaxTicketAttachments = 5

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

var ticketStatusOrder = map[TicketStatus]int{
	TicketStatusOpen:       0,
	TicketStatusInProgress: 1,
	TicketStatusResolved:   2,
	TicketStatusClosed:     3,
}

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	_, ok := ticketStatusOrder[s]
	return ok
}

// CanAdvanceTo reports whether the owner may move a ticket from s to next.
// Moves only go forward along OPEN -> IN_PROGRESS -> RESOLVED -> CLOSED and
// CLOSED is terminal. Staying in place is allowed.
func (s TicketStatus) CanAdvanceTo(next TicketStatus) bool {
	from, ok := ticketStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := ticketStatusOrder[next]
	if !ok {
		return false
	}
	if s == TicketStatusClosed {
		return next == TicketStatusClosed
	}
	return to >= from
}

// CanBeResolvedByAdmin reports whether an admin may flip the ticket to RESOLVED.
func (s TicketStatus) CanBeResolvedByAdmin() bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// MaintenanceTicket is a repair request raised by a tenant.
type MaintenanceTicket struct {
	ID          string
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	Attachments []string
	TenantID    string
	Tenant      *UserSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SanitizeAttachments keeps the string entries of a loosely decoded JSON
// array and applies CleanAttachments. Entries of any other type are dropped.
func SanitizeAttachments(raw []any) []string {
	strs := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			strs = append(strs, s)
		}
	}
	return CleanAttachments(strs)
}

// CleanAttachments drops blank entries and caps the list at MaxTicketAttachments.
func CleanAttachments(in []string) []string {
	out := make([]string, 0, MaxTicketAttachments)
	for _, a := range in {
		if strings.TrimSpace(a) == "" {
			continue
		}
		out = append(out, a)
		if len(out) == MaxTicketAttachments {
			break
		}
	}
	return out
}
