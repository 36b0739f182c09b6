package memory

import (
	"bytes"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
)

// Registry is the TOML registry file layout
//
//	[[webhooks]]
//	webhook_url = "abc123"
//	chat_id = "team-backend"
//
//	[[chats]]
//	id = "team-backend"
//	telegram_id = "-1001234567890"
type Registry struct {
	Webhooks []model.Webhook `toml:"webhooks"`
	Chats    []model.Chat    `toml:"chats"`
}

// ParseRegistry decodes a TOML registry and loads it into a new Repository.
// Unknown keys, empty identifiers and duplicated identifiers are rejected. A
// webhook may point to a chat that is not in the file; that is reported at
// lookup time like any other missing chat.
func ParseRegistry(data []byte) (*Repository, error) {
	var registry Registry
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&registry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode registry")
	}

	repo := New()

	seenWebhooks := make(map[types.WebhookURL]struct{}, len(registry.Webhooks))
	for i, webhook := range registry.Webhooks {
		if webhook.WebhookURL == "" {
			return nil, goerr.New("webhook_url is empty", goerr.V("index", i))
		}
		if webhook.ChatID != nil && *webhook.ChatID == "" {
			return nil, goerr.New("chat_id is empty", goerr.V("webhook_url", webhook.WebhookURL))
		}
		if _, ok := seenWebhooks[webhook.WebhookURL]; ok {
			return nil, goerr.New("duplicated webhook_url", goerr.V("webhook_url", webhook.WebhookURL))
		}
		seenWebhooks[webhook.WebhookURL] = struct{}{}
		repo.PutWebhook(webhook)
	}

	seenChats := make(map[types.ChatID]struct{}, len(registry.Chats))
	for i, chat := range registry.Chats {
		if chat.ID == "" {
			return nil, goerr.New("chat id is empty", goerr.V("index", i))
		}
		if _, ok := seenChats[chat.ID]; ok {
			return nil, goerr.New("duplicated chat id", goerr.V("chat_id", chat.ID))
		}
		seenChats[chat.ID] = struct{}{}
		repo.PutChat(chat)
	}

	return repo, nil
}
