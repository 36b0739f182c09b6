package errutil

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Handle logs err at error level and reports it to Sentry when a Sentry client
// has been initialized. It does nothing if err is nil.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	if hub.Client() != nil {
		if evID := hub.CaptureException(err); evID != nil {
			logger = logger.With(slog.String("sentry_event_id", string(*evID)))
		}
	}

	logger.Error(msg, slog.Any("error", err))
}
