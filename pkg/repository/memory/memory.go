package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
)

// Repository keeps registrations in memory. It is safe for concurrent use and
// returns copies, so callers never share records.
type Repository struct {
	mu       sync.RWMutex
	webhooks map[types.WebhookURL]model.Webhook
	chats    map[types.ChatID]model.Chat
}

var _ interfaces.Repository = (*Repository)(nil)

// New creates an empty Repository
func New() *Repository {
	return &Repository{
		webhooks: make(map[types.WebhookURL]model.Webhook),
		chats:    make(map[types.ChatID]model.Chat),
	}
}

// PutWebhook adds or replaces a webhook registration
func (x *Repository) PutWebhook(webhook model.Webhook) {
	if webhook.ChatID != nil {
		chatID := *webhook.ChatID
		webhook.ChatID = &chatID
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.webhooks[webhook.WebhookURL] = webhook
}

// PutChat adds or replaces a chat registration
func (x *Repository) PutChat(chat model.Chat) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.chats[chat.ID] = chat
}

func (x *Repository) FindWebhookByURL(ctx context.Context, webhookURL types.WebhookURL) (*model.Webhook, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	webhook, ok := x.webhooks[webhookURL]
	if !ok {
		return nil, nil
	}
	if webhook.ChatID != nil {
		chatID := *webhook.ChatID
		webhook.ChatID = &chatID
	}
	return &webhook, nil
}

func (x *Repository) FindChatByID(ctx context.Context, chatID types.ChatID) (*model.Chat, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	chat, ok := x.chats[chatID]
	if !ok {
		return nil, nil
	}
	return &chat, nil
}
