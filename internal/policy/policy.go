package policy

import (
	"context"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
)

// Action names an operation checked by the policy.
type Action string

const (
	ActionLeaseList     Action = "lease:list"
	ActionLeaseRead     Action = "lease:read"
	ActionLeaseCreate   Action = "lease:create"
	ActionLeaseUpdate   Action = "lease:update"
	ActionLeaseDelete   Action = "lease:delete"
	ActionLeaseDownload Action = "lease:download"

	ActionTicketList    Action = "ticket:list"
	ActionTicketCreate  Action = "ticket:create"
	ActionTicketRead    Action = "ticket:read"
	ActionTicketEdit    Action = "ticket:edit"
	ActionTicketDelete  Action = "ticket:delete"
	ActionTicketResolve Action = "ticket:resolve"

	ActionUserList      Action = "user:list"
	ActionFileUpload    Action = "file:upload"
	ActionPaymentCreate Action = "payment:create"
	ActionPaymentList   Action = "payment:list"
)

// ResourceKind identifies the type of resource being accessed.
type ResourceKind string

const (
	KindLease   ResourceKind = "lease"
	KindTicket  ResourceKind = "ticket"
	KindUser    ResourceKind = "user"
	KindFile    ResourceKind = "file"
	KindPayment ResourceKind = "payment"
)

// Resource is the target of an action. OwnerID is empty for collection-level actions.
type Resource struct {
	Kind    ResourceKind
	OwnerID string
}

// LeaseResource describes a loaded lease.
func LeaseResource(l *domain.Lease) Resource {
	return Resource{Kind: KindLease, OwnerID: l.TenantID}
}

// TicketResource describes a loaded maintenance ticket.
func TicketResource(t *domain.MaintenanceTicket) Resource {
	return Resource{Kind: KindTicket, OwnerID: t.TenantID}
}

// Decision is the outcome of a policy evaluation.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// Request bundles the inputs of one decision.
type Request struct {
	Identity domain.Identity
	Action   Action
	Resource Resource
}

// Authorizer enforces the policy, returning a FORBIDDEN error on denial.
type Authorizer interface {
	Authorize(ctx context.Context, id domain.Identity, action Action, resource Resource) error
}
