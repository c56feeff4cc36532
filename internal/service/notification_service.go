package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/events"
	"github.com/carnage999-max/ultimate-app-manager/internal/mail"
	"github.com/carnage999-max/ultimate-app-manager/internal/queue"
)

// Email kinds, used for logging and task payloads.
const (
	EmailWelcome             = "welcome"
	EmailMaintenanceReceived = "maintenance_received"
	EmailMaintenanceAttended = "maintenance_attended"
	EmailAccountDeletion     = "account_deletion"
)

// NotificationService turns domain events into emails handed to the outbox.
type NotificationService struct {
	dispatcher events.Dispatcher
	renderer   *mail.Renderer
	outbox     queue.Outbox
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, renderer *mail.Renderer, outbox queue.Outbox, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		renderer:   renderer,
		outbox:     outbox,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
	n.dispatcher.Subscribe(events.EventPaymentSucceeded, n.handlePayment)
	n.dispatcher.Subscribe(events.EventPaymentFailed, n.handlePayment)
}

// NotifyAccountDeletion forwards a deletion request to the support inbox.
// Unlike event-driven emails the caller learns whether it was accepted.
func (n *NotificationService) NotifyAccountDeletion(ctx context.Context, name, email, reason string) error {
	msg, err := n.renderer.AccountDeletion(name, email, reason)
	if err != nil {
		return err
	}
	return n.outbox.Send(ctx, EmailAccountDeletion, msg)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("UserRegistered", zap.String("user_id", payload.UserID))
	msg, err := n.renderer.Welcome(fallbackName(payload.Name, "User"), payload.Email)
	if err != nil {
		return err
	}
	return n.outbox.Send(ctx, EmailWelcome, msg)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("TicketCreated", zap.String("ticket_id", payload.TicketID))
	if payload.TenantEmail == "" {
		return nil
	}
	msg, err := n.renderer.MaintenanceReceived(fallbackName(payload.TenantName, "Tenant"), payload.TenantEmail,
		payload.Title, payload.Description, payload.Priority)
	if err != nil {
		return err
	}
	return n.outbox.Send(ctx, EmailMaintenanceReceived, msg)
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("TicketResolved", zap.String("ticket_id", payload.TicketID), zap.String("actor_id", event.ActorID))
	if payload.TenantEmail == "" {
		return nil
	}
	msg, err := n.renderer.MaintenanceAttended(fallbackName(payload.TenantName, "Tenant"), payload.TenantEmail, payload.Title)
	if err != nil {
		return err
	}
	return n.outbox.Send(ctx, EmailMaintenanceAttended, msg)
}

func (n *NotificationService) handlePayment(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info(string(event.Type),
		zap.String("intent_id", payload.IntentID),
		zap.String("user_id", payload.UserID),
		zap.String("amount", payload.Amount),
		zap.String("currency", payload.Currency))
	return nil
}

func fallbackName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
