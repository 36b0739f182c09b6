package model

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
)

// Webhook is a registered webhook. ChatID is nil when the webhook has not been
// assigned to any chat yet.
type Webhook struct {
	WebhookURL types.WebhookURL `firestore:"webhook_url" toml:"webhook_url"`
	ChatID     *types.ChatID    `firestore:"chat_id" toml:"chat_id"`
}

// Chat is a registered destination chat
type Chat struct {
	ID         types.ChatID `firestore:"id" toml:"id"`
	TelegramID string       `firestore:"telegram_id" toml:"telegram_id"`
}

// TelegramChatID parses TelegramID as a signed 64-bit integer
func (x *Chat) TelegramChatID() (int64, error) {
	id, err := strconv.ParseInt(x.TelegramID, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "telegram id is not an integer",
			goerr.V("chat_id", x.ID),
			goerr.V("telegram_id", x.TelegramID),
		)
	}
	return id, nil
}
