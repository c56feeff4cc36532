package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/mail"
)

// Outbox accepts emails for best-effort delivery. Callers never wait on the provider.
type Outbox interface {
	Send(ctx context.Context, kind string, msg mail.Message) error
}

// QueueOutbox hands emails to the asynq worker.
type QueueOutbox struct {
	client *Client
}

func NewQueueOutbox(client *Client) *QueueOutbox {
	return &QueueOutbox{client: client}
}

func (o *QueueOutbox) Send(ctx context.Context, kind string, msg mail.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return o.client.EnqueueEmail(ctx, EmailSendPayload{Message: msg, Kind: kind})
}

// DirectOutbox delivers in a detached goroutine when no queue is configured.
type DirectOutbox struct {
	sender  mail.Sender
	logger  *zap.Logger
	timeout time.Duration
}

func NewDirectOutbox(sender mail.Sender, logger *zap.Logger) *DirectOutbox {
	return &DirectOutbox{sender: sender, logger: logger, timeout: 30 * time.Second}
}

func (o *DirectOutbox) Send(_ context.Context, kind string, msg mail.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	go func() {
		// Request contexts are cancelled once the response is written.
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()
		if err := o.sender.Send(ctx, msg); err != nil {
			o.logger.Warn("email delivery failed", zap.String("kind", kind), zap.Error(err))
			return
		}
		o.logger.Debug("email delivered", zap.String("kind", kind))
	}()
	return nil
}
