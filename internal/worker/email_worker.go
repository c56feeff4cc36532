package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/mail"
	"github.com/carnage999-max/ultimate-app-manager/internal/queue"
)

// EmailWorker delivers queued emails through the configured mail provider.
type EmailWorker struct {
	sender mail.Sender
	logger *zap.Logger
}

func NewEmailWorker(sender mail.Sender, logger *zap.Logger) *EmailWorker {
	return &EmailWorker{sender: sender, logger: logger}
}

// ProcessTask handles queue.TypeEmailSend. Undecodable payloads are not retried.
func (w *EmailWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.EmailSendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := payload.Message.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := w.sender.Send(ctx, payload.Message); err != nil {
		w.logger.Warn("email delivery failed",
			zap.String("kind", payload.Kind),
			zap.Strings("to", payload.Message.To),
			zap.Error(err))
		return err
	}

	w.logger.Info("email delivered", zap.String("kind", payload.Kind), zap.Strings("to", payload.Message.To))
	return nil
}

// Register wires every worker into the asynq mux.
func Register(registry *queue.HandlersRegistry, emails *EmailWorker) {
	registry.Register(queue.TypeEmailSend, asynq.HandlerFunc(emails.ProcessTask))
}
