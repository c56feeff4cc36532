// Package mail renders and delivers the transactional emails of the service.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/config"
)

// Message is one outgoing email.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Validate checks the fields every provider requires.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return errors.New("mail: no recipients")
	}
	if m.Subject == "" {
		return errors.New("mail: empty subject")
	}
	return nil
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns a Resend-backed sender, or a log-only sender when no API key is configured.
func NewSender(cfg config.MailConfig, logger *zap.Logger) Sender {
	if cfg.APIKey == "" {
		logger.Warn("RESEND_API_KEY not provided; emails will only be logged")
		return &LogSender{logger: logger}
	}
	return NewResendSender(resend.NewClient(cfg.APIKey), cfg.From)
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender wraps an existing Resend client.
func NewResendSender(client *resend.Client, from string) *ResendSender {
	return &ResendSender{client: client, from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// LogSender records messages instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender builds a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.logger.Info("email not sent (no provider configured)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
