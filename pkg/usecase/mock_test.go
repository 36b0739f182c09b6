package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/pushgram/pkg/domain/model"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
	"github.com/m-mizutani/pushgram/pkg/repository/memory"
)

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	sendMessageFunc func(ctx context.Context, chatID int64, text string) error

	mu    sync.Mutex
	calls []MockSendCall
}

type MockSendCall struct {
	ChatID int64
	Text   string
}

func (m *MockNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	m.calls = append(m.calls, MockSendCall{ChatID: chatID, Text: text})
	m.mu.Unlock()

	if m.sendMessageFunc != nil {
		return m.sendMessageFunc(ctx, chatID, text)
	}
	return nil
}

func (m *MockNotifier) Calls() []MockSendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockSendCall(nil), m.calls...)
}

// failingRepository fails every lookup
type failingRepository struct{}

var errStore = errors.New("store unavailable")

func (failingRepository) FindWebhookByURL(ctx context.Context, webhookURL types.WebhookURL) (*model.Webhook, error) {
	return nil, errStore
}

func (failingRepository) FindChatByID(ctx context.Context, chatID types.ChatID) (*model.Chat, error) {
	return nil, errStore
}

func chatIDPtr(id types.ChatID) *types.ChatID { return &id }

// newRepository returns a store with:
//   - "abc123" -> chat "c1" (telegram 555)
//   - "unassigned" -> no chat
//   - "dangling" -> chat "missing" that is not registered
//   - "bad-id" -> chat "c2" whose telegram id is not an integer
func newRepository() *memory.Repository {
	repo := memory.New()
	repo.PutWebhook(model.Webhook{WebhookURL: "abc123", ChatID: chatIDPtr("c1")})
	repo.PutWebhook(model.Webhook{WebhookURL: "unassigned"})
	repo.PutWebhook(model.Webhook{WebhookURL: "dangling", ChatID: chatIDPtr("missing")})
	repo.PutWebhook(model.Webhook{WebhookURL: "bad-id", ChatID: chatIDPtr("c2")})
	repo.PutChat(model.Chat{ID: "c1", TelegramID: "555"})
	repo.PutChat(model.Chat{ID: "c2", TelegramID: "@not-a-number"})
	return repo
}

func newPushEvent(commits ...model.Commit) *model.PushEvent {
	return &model.PushEvent{
		ObjectKind: model.EventKindPush,
		Ref:        "refs/heads/feature/login",
		Project:    model.Project{Name: "backend"},
		Commits:    commits,
	}
}
