package errs

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Handle logs err and reports it to Sentry when a Sentry client is configured
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	ctxlog.From(ctx).Error(msg, slog.Any("error", err))

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetContext("error", sentry.Context{"message": msg})
		hub.CaptureException(err)
	})
}
