package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/classzip/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
)

// safeBuffer is a thread-safe buffer for concurrent logging
type safeBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (sb *safeBuffer) Write(p []byte) (int, error) {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.Write(p)
}

func (sb *safeBuffer) String() string {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.String()
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not complete within timeout")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("executes handler asynchronously", func(t *testing.T) {
		executed := false
		done := async.Dispatch(context.Background(), time.Second, func(ctx context.Context) error {
			executed = true
			return nil
		})

		waitDone(t, done)
		gt.True(t, executed)
	})

	t.Run("logs returned errors", func(t *testing.T) {
		buf := &safeBuffer{}
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))

		done := async.Dispatch(ctx, time.Second, func(ctx context.Context) error {
			return errors.New("revoke failed")
		})

		waitDone(t, done)
		gt.True(t, strings.Contains(buf.String(), "error in async handler"))
		gt.True(t, strings.Contains(buf.String(), "revoke failed"))
	})

	t.Run("recovers from panic with stack trace", func(t *testing.T) {
		buf := &safeBuffer{}
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))

		done := async.Dispatch(ctx, time.Second, func(ctx context.Context) error {
			panic("test panic with stack")
		})

		waitDone(t, done)
		logOutput := buf.String()
		gt.True(t, strings.Contains(logOutput, "panic in async handler"))
		gt.True(t, strings.Contains(logOutput, "test panic with stack"))
		gt.True(t, strings.Contains(logOutput, "goroutine"))
	})

	t.Run("survives cancellation of the parent context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		var handlerErr error
		done := async.Dispatch(ctx, time.Second, func(newCtx context.Context) error {
			cancel()
			handlerErr = newCtx.Err()
			return nil
		})

		waitDone(t, done)
		gt.NoError(t, handlerErr)
	})

	t.Run("handler context is bounded by timeout", func(t *testing.T) {
		var deadline time.Time
		var hasDeadline bool
		done := async.Dispatch(context.Background(), 50*time.Millisecond, func(ctx context.Context) error {
			deadline, hasDeadline = ctx.Deadline()
			<-ctx.Done()
			return nil
		})

		waitDone(t, done)
		gt.True(t, hasDeadline)
		gt.False(t, deadline.IsZero())
	})

	t.Run("preserves logger", func(t *testing.T) {
		logger := slog.Default()
		ctx := ctxlog.With(context.Background(), logger)

		var got *slog.Logger
		done := async.Dispatch(ctx, time.Second, func(newCtx context.Context) error {
			got = ctxlog.From(newCtx)
			return nil
		})

		waitDone(t, done)
		gt.Value(t, got).NotNil()
	})
}
