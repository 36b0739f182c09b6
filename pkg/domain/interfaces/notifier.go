package interfaces

import "context"

// Notifier delivers a text message to a chat on the messaging platform
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
