package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pushgram/pkg/utils/async"
)

type ctxKey struct{}

func TestRun(t *testing.T) {
	t.Run("returns nil on success", func(t *testing.T) {
		executed := false
		err := async.Run(context.Background(), func(ctx context.Context) error {
			executed = true
			return nil
		})
		gt.NoError(t, err)
		gt.True(t, executed)
	})

	t.Run("returns handler error", func(t *testing.T) {
		want := errors.New("test error")
		err := async.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		gt.True(t, errors.Is(err, want))
	})

	t.Run("recovers from panic with stack trace", func(t *testing.T) {
		var logBuf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		ctx := ctxlog.With(context.Background(), logger)

		err := async.Run(ctx, func(ctx context.Context) error {
			panic("test panic with stack")
		})
		gt.Error(t, err)

		logOutput := logBuf.String()
		gt.True(t, strings.Contains(logOutput, "panic in handler"))
		gt.True(t, strings.Contains(logOutput, "test panic with stack"))
		gt.True(t, strings.Contains(logOutput, "goroutine"))
		gt.True(t, strings.Contains(logOutput, "async_test.go"))
	})
}

func TestDetach(t *testing.T) {
	t.Run("preserves context values", func(t *testing.T) {
		var logBuf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logBuf, nil))
		ctx := ctxlog.With(context.Background(), logger)
		ctx = context.WithValue(ctx, ctxKey{}, "request-1")

		newCtx := async.Detach(ctx)
		ctxlog.From(newCtx).Info("logged after detach")
		gt.S(t, logBuf.String()).Contains("logged after detach")
		gt.Equal(t, newCtx.Value(ctxKey{}), any("request-1"))
	})

	t.Run("is not cancelled with the original context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		newCtx := async.Detach(ctx)
		cancel()

		gt.Error(t, ctx.Err())
		gt.NoError(t, newCtx.Err())

		_, hasDeadline := newCtx.Deadline()
		gt.False(t, hasDeadline)
	})
}
