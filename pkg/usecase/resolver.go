package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
)

// Resolver looks up the destination chat of a webhook. Every call reads the
// repository again; mappings may change between requests.
type Resolver struct {
	repo interfaces.Repository
}

// NewResolver creates a Resolver backed by repo
func NewResolver(repo interfaces.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve follows webhook URL -> webhook registration -> chat registration.
//
// Errors:
//   - types.ErrTagNotFound if the webhook or the chat does not exist
//   - types.ErrTagUnconfigured if the webhook has no chat assigned
//   - untagged if the repository itself fails
func (x *Resolver) Resolve(ctx context.Context, webhookURL types.WebhookURL) (*model.Chat, error) {
	webhook, err := x.repo.FindWebhookByURL(ctx, webhookURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find webhook", goerr.V("webhook_url", webhookURL))
	}
	if webhook == nil {
		return nil, goerr.New("webhook not found",
			goerr.V("webhook_url", webhookURL),
			goerr.T(types.ErrTagNotFound),
		)
	}

	if webhook.ChatID == nil {
		return nil, goerr.New("webhook is not assigned to any chat",
			goerr.V("webhook_url", webhookURL),
			goerr.T(types.ErrTagUnconfigured),
		)
	}
	chatID := *webhook.ChatID

	chat, err := x.repo.FindChatByID(ctx, chatID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find chat",
			goerr.V("webhook_url", webhookURL),
			goerr.V("chat_id", chatID),
		)
	}
	if chat == nil {
		return nil, goerr.New("chat not found",
			goerr.V("webhook_url", webhookURL),
			goerr.V("chat_id", chatID),
			goerr.T(types.ErrTagNotFound),
		)
	}

	return chat, nil
}
