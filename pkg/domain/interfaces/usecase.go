package interfaces

import (
	"context"

	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
)

// DispatchUseCase relays a parsed push event to the chat registered for a webhook
type DispatchUseCase interface {
	// Dispatch resolves the destination of webhookURL, composes the summary of
	// event and delivers it. Failures carry one of the types.ErrTag* kinds.
	Dispatch(ctx context.Context, webhookURL types.WebhookURL, event *model.PushEvent) error
}
