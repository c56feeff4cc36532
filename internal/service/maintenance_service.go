package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/events"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// MaintenanceService coordinates maintenance ticket workflows.
type MaintenanceService struct {
	tickets    repository.TicketRepository
	authz      policy.Authorizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// MaintenanceDependencies bundles collaborators for the maintenance service.
type MaintenanceDependencies struct {
	TicketRepo repository.TicketRepository
	Authorizer policy.Authorizer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes a new maintenance request.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    string
	Attachments []string
}

// TicketUpdateInput carries patch fields. Nil means "not provided".
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Attachments *[]string
}

func (in TicketUpdateInput) onlyStatus() bool {
	return in.Status != nil && in.Title == nil && in.Description == nil && in.Priority == nil && in.Attachments == nil
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(deps MaintenanceDependencies) *MaintenanceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{
		tickets:    deps.TicketRepo,
		authz:      deps.Authorizer,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns every ticket to admins and only their own to tenants, newest first.
func (s *MaintenanceService) List(ctx context.Context, id domain.Identity) ([]domain.MaintenanceTicket, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionTicketList, policy.Resource{Kind: policy.KindTicket}); err != nil {
		return nil, err
	}
	filter := repository.TicketFilter{}
	if !id.IsAdmin() {
		filter.TenantID = &id.UserID
	}
	return s.tickets.List(ctx, filter)
}

// Get loads one ticket the caller may read.
func (s *MaintenanceService) Get(ctx context.Context, id domain.Identity, ticketID string) (*domain.MaintenanceTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundAs(err, "Maintenance request")
	}
	if err := s.authz.Authorize(ctx, id, policy.ActionTicketRead, policy.TicketResource(ticket)); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Create opens a ticket owned by the calling tenant.
func (s *MaintenanceService) Create(ctx context.Context, id domain.Identity, in TicketCreateInput) (*domain.MaintenanceTicket, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionTicketCreate, policy.Resource{Kind: policy.KindTicket}); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	priority := domain.TicketPriorityMedium
	if strings.TrimSpace(in.Priority) != "" {
		priority = domain.TicketPriority(strings.ToUpper(strings.TrimSpace(in.Priority)))
		if !priority.Valid() {
			return nil, invalidPriority()
		}
	}

	ticket := &domain.MaintenanceTicket{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		Attachments: domain.CleanAttachments(in.Attachments),
		TenantID:    id.UserID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	created, err := s.tickets.GetByID(ctx, ticket.ID)
	if err != nil {
		return nil, notFoundAs(err, "Maintenance request")
	}
	s.publishTicket(ctx, events.EventTicketCreated, id, created)
	return created, nil
}

// Update applies a patch. Owners edit their own tickets and may only move the
// status forward. Admins who do not own the ticket may only resolve it.
func (s *MaintenanceService) Update(ctx context.Context, id domain.Identity, ticketID string, in TicketUpdateInput) (*domain.MaintenanceTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundAs(err, "Maintenance request")
	}
	previous := ticket.Status

	if id.IsAdmin() && !id.Owns(ticket.TenantID) {
		if err := s.authz.Authorize(ctx, id, policy.ActionTicketResolve, policy.TicketResource(ticket)); err != nil {
			return nil, err
		}
		if err := resolveAsAdmin(ticket, in); err != nil {
			return nil, err
		}
	} else {
		if err := s.authz.Authorize(ctx, id, policy.ActionTicketEdit, policy.TicketResource(ticket)); err != nil {
			return nil, err
		}
		if err := applyOwnerPatch(ticket, in); err != nil {
			return nil, err
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, notFoundAs(err, "Maintenance request")
	}

	if previous != domain.TicketStatusResolved && ticket.Status == domain.TicketStatusResolved {
		s.publishTicket(ctx, events.EventTicketResolved, id, ticket)
	}
	return ticket, nil
}

// Delete removes a ticket. Only its owner may delete it.
func (s *MaintenanceService) Delete(ctx context.Context, id domain.Identity, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return notFoundAs(err, "Maintenance request")
	}
	if err := s.authz.Authorize(ctx, id, policy.ActionTicketDelete, policy.TicketResource(ticket)); err != nil {
		return err
	}
	return notFoundAs(s.tickets.Delete(ctx, ticket.ID), "Maintenance request")
}

func resolveAsAdmin(ticket *domain.MaintenanceTicket, in TicketUpdateInput) error {
	if !in.onlyStatus() || domain.TicketStatus(strings.ToUpper(strings.TrimSpace(*in.Status))) != domain.TicketStatusResolved {
		return apperrors.NewInvalidTransition("Admins can only mark requests as attended.", map[string]any{
			"allowed_status": domain.TicketStatusResolved,
		})
	}
	if !ticket.Status.CanBeResolvedByAdmin() {
		return apperrors.NewInvalidTransition("Request is already "+string(ticket.Status), map[string]any{
			"from": ticket.Status,
			"to":   domain.TicketStatusResolved,
		})
	}
	ticket.Status = domain.TicketStatusResolved
	return nil
}

func applyOwnerPatch(ticket *domain.MaintenanceTicket, in TicketUpdateInput) error {
	changed := false
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return apperrors.NewValidationError("title must not be empty", map[string]any{"field": "title"})
		}
		ticket.Title = title
		changed = true
	}
	if in.Description != nil {
		ticket.Description = strings.TrimSpace(*in.Description)
		changed = true
	}
	if in.Priority != nil {
		priority := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(*in.Priority)))
		if !priority.Valid() {
			return invalidPriority()
		}
		ticket.Priority = priority
		changed = true
	}
	if in.Status != nil {
		next := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(*in.Status)))
		if !next.Valid() {
			return apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
		}
		if !ticket.Status.CanAdvanceTo(next) {
			return apperrors.NewInvalidTransition("cannot move request from "+string(ticket.Status)+" to "+string(next), map[string]any{
				"from": ticket.Status,
				"to":   next,
			})
		}
		ticket.Status = next
		changed = true
	}
	if in.Attachments != nil {
		ticket.Attachments = domain.CleanAttachments(*in.Attachments)
		changed = true
	}
	if !changed {
		return apperrors.NewValidationError("No valid fields to update.", nil)
	}
	return nil
}

func invalidPriority() error {
	return apperrors.NewValidationError("invalid priority", map[string]any{"field": "priority", "allowed": []domain.TicketPriority{
		domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh, domain.TicketPriorityUrgent,
	}})
}

func (s *MaintenanceService) publishTicket(ctx context.Context, eventType events.EventType, id domain.Identity, ticket *domain.MaintenanceTicket) {
	payload := events.TicketPayload{
		TicketID:    ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Priority:    string(ticket.Priority),
	}
	if ticket.Tenant != nil {
		payload.TenantName = ticket.Tenant.Name
		payload.TenantEmail = ticket.Tenant.Email
	}
	publish(ctx, s.dispatcher, s.logger, events.New(eventType, id.UserID, payload))
}
