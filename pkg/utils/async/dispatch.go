package async

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/classzip/pkg/utils/errs"
	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler on its own goroutine, detached from the cancellation
// of ctx and bounded by timeout. The logger and Sentry hub of ctx are carried
// over. Returned errors and panics are logged and reported, never propagated.
//
// The returned channel is closed once handler has finished.
func Dispatch(ctx context.Context, timeout time.Duration, handler func(ctx context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	newCtx, cancel := context.WithTimeout(newBackgroundContext(ctx), timeout)

	go func() {
		defer close(done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					slog.Any("recover", r),
					slog.String("stack", string(debug.Stack())),
				)
				errs.Handle(newCtx, "panic in async handler", fmt.Errorf("panic: %v", r))
			}
		}()

		if err := handler(newCtx); err != nil {
			errs.Handle(newCtx, "error in async handler", err)
		}
	}()

	return done
}

func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := ctxlog.With(context.Background(), ctxlog.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		newCtx = sentry.SetHubOnContext(newCtx, hub.Clone())
	}
	return newCtx
}
