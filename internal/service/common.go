package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/events"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// notFoundAs names the missing resource in NOT_FOUND errors and passes anything else through.
func notFoundAs(err error, resource string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
