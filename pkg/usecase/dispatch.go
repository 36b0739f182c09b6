package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
	"github.com/m-mizutani/pushgram/pkg/utils/async"
)

// DefaultDeliveryTimeout bounds a single delivery call
const DefaultDeliveryTimeout = 10 * time.Second

type dispatchUseCase struct {
	resolver        *Resolver
	notifier        interfaces.Notifier
	deliveryTimeout time.Duration
}

// DispatchOption is a functional option for the dispatch use case
type DispatchOption func(*dispatchUseCase)

// WithDeliveryTimeout sets the timeout of the delivery call
func WithDeliveryTimeout(timeout time.Duration) DispatchOption {
	return func(uc *dispatchUseCase) {
		uc.deliveryTimeout = timeout
	}
}

// NewDispatch creates a new instance of DispatchUseCase
func NewDispatch(repo interfaces.Repository, notifier interfaces.Notifier, opts ...DispatchOption) interfaces.DispatchUseCase {
	uc := &dispatchUseCase{
		resolver:        NewResolver(repo),
		notifier:        notifier,
		deliveryTimeout: DefaultDeliveryTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Dispatch resolves the destination chat, composes the message and sends it.
//
// The request context is honored until delivery starts. The delivery call
// itself runs on a context detached from the request and bounded by the
// delivery timeout, so a client disconnect does not abort a message that is
// already being sent. Exactly one SendMessage call is made per dispatched event.
func (uc *dispatchUseCase) Dispatch(ctx context.Context, webhookURL types.WebhookURL, event *model.PushEvent) error {
	if event == nil {
		return goerr.New("event is required", goerr.T(types.ErrTagBadRequest))
	}

	logger := ctxlog.From(ctx).With(
		slog.String("webhook_url", webhookURL.String()),
		slog.String("object_kind", event.ObjectKind),
	)

	// Other event kinds are not special-cased: they go through the same path
	// and are summarized from whatever their first commit contains.
	if event.ObjectKind != model.EventKindPush {
		logger.Warn("Non-push event received, processing as push")
	}

	chat, err := uc.resolver.Resolve(ctx, webhookURL)
	if err != nil {
		return err
	}

	text, err := Compose(event)
	if err != nil {
		return goerr.Wrap(err, "failed to compose notification",
			goerr.V("webhook_url", webhookURL),
			goerr.V("object_kind", event.ObjectKind),
			goerr.T(types.ErrTagUnprocessableEvent),
		)
	}

	telegramID, err := chat.TelegramChatID()
	if err != nil {
		return goerr.Wrap(err, "invalid delivery destination",
			goerr.V("webhook_url", webhookURL),
			goerr.T(types.ErrTagDelivery),
		)
	}

	if err := ctx.Err(); err != nil {
		return goerr.Wrap(err, "request cancelled before delivery",
			goerr.V("webhook_url", webhookURL),
			goerr.T(types.ErrTagCancelled),
		)
	}

	deliveryID := uuid.NewString()
	logger = logger.With(
		slog.String("delivery_id", deliveryID),
		slog.String("chat_id", chat.ID.String()),
	)

	deliveryCtx, cancel := context.WithTimeout(async.Detach(ctx), uc.deliveryTimeout)
	defer cancel()
	deliveryCtx = ctxlog.With(deliveryCtx, logger)

	if err := async.Run(deliveryCtx, func(ctx context.Context) error {
		return uc.notifier.SendMessage(ctx, telegramID, text)
	}); err != nil {
		return goerr.Wrap(err, "failed to deliver notification",
			goerr.V("webhook_url", webhookURL),
			goerr.V("chat_id", chat.ID),
			goerr.V("delivery_id", deliveryID),
			goerr.T(types.ErrTagDelivery),
		)
	}

	logger.Info("Notification delivered")
	return nil
}
