package interfaces

import (
	"context"

	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
)

// Repository is the read-only view of webhook and chat registrations.
// Both lookups return (nil, nil) when the record does not exist.
type Repository interface {
	FindWebhookByURL(ctx context.Context, webhookURL types.WebhookURL) (*model.Webhook, error)
	FindChatByID(ctx context.Context, chatID types.ChatID) (*model.Chat, error)
}
