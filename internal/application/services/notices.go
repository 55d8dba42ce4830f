package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// NoticeFor converts an operation failure into the notice shown to the
// operator. action is a short verb phrase such as "update product".
func NoticeFor(action string, err error) entities.Notice {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		return entities.Notice{Level: entities.NoticeError, Message: "Failed to " + action}
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		return entities.Notice{Level: entities.NoticeError, Message: appErr.Message, Fields: appErr.Fields}
	case apperrors.ErrorTypeRejected:
		return entities.Notice{Level: entities.NoticeError, Message: appErr.Message}
	case apperrors.ErrorTypeNotFound:
		return entities.Notice{
			Level:   entities.NoticeWarning,
			Message: "The record no longer exists. Refresh the list and try again.",
			Refresh: true,
		}
	case apperrors.ErrorTypeUnauthorized:
		return entities.Notice{Level: entities.NoticeError, Message: "Your session has expired. Please sign in again."}
	case apperrors.ErrorTypeInFlight:
		return entities.Notice{Level: entities.NoticeInfo, Message: "A save is already in progress."}
	case apperrors.ErrorTypeTransport:
		return entities.Notice{Level: entities.NoticeError, Message: "Failed to " + action + ". Check the connection and try again."}
	}
	return entities.Notice{Level: entities.NoticeError, Message: "Failed to " + action}
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, entities.Notice) {}

type alwaysConfirm struct{}

func (alwaysConfirm) Confirm(context.Context, string) bool { return true }

func orNoop(n providers.Notifier) providers.Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func orConfirm(c providers.Confirmer) providers.Confirmer {
	if c == nil {
		return alwaysConfirm{}
	}
	return c
}

// failure logs err and notifies the operator. Local validation errors are
// expected input problems and are logged at debug level.
func failure(ctx context.Context, logger *zerolog.Logger, notifier providers.Notifier, action string, err error) {
	event := logger.Warn()
	if apperrors.IsType(err, apperrors.ErrorTypeValidation) || apperrors.IsType(err, apperrors.ErrorTypeInFlight) {
		event = logger.Debug()
	}
	event.Err(err).Str("action", action).Msg("operation failed")
	notifier.Notify(ctx, NoticeFor(action, err))
}

func success(ctx context.Context, notifier providers.Notifier, message string) {
	notifier.Notify(ctx, entities.Notice{Level: entities.NoticeSuccess, Message: message})
}

// outcome labels a submission result for metrics
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if t := apperrors.TypeOf(err); t != "" {
		return strings.ToLower(string(t))
	}
	return "error"
}
