package errutil_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pushgram/pkg/utils/errutil"
)

func TestHandle(t *testing.T) {
	t.Run("nil error is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

		errutil.Handle(ctx, "nothing", nil)
		gt.Equal(t, buf.Len(), 0)
	})

	t.Run("logs error without sentry", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

		errutil.Handle(ctx, "delivery failed", goerr.New("boom", goerr.V("chat_id", "c1")))
		gt.S(t, buf.String()).Contains("delivery failed")
		gt.S(t, buf.String()).Contains("boom")
	})

	t.Run("reports error to sentry hub in context", func(t *testing.T) {
		var events []*sentry.Event
		client, err := sentry.NewClient(sentry.ClientOptions{
			Dsn: "https://public@sentry.example.com/1",
			BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
				events = append(events, event)
				return nil
			},
		})
		gt.NoError(t, err)

		hub := sentry.NewHub(client, sentry.NewScope())
		var buf bytes.Buffer
		ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
		ctx = sentry.SetHubOnContext(ctx, hub)

		errutil.Handle(ctx, "delivery failed", goerr.New("boom"))
		gt.A(t, events).Length(1)
		gt.S(t, buf.String()).Contains("delivery failed")
	})
}
