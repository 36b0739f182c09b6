package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pushgram/pkg/domain/types"
	"github.com/m-mizutani/pushgram/pkg/usecase"
)

func TestResolver_Resolve(t *testing.T) {
	resolver := usecase.NewResolver(newRepository())

	tests := []struct {
		name       string
		webhookURL types.WebhookURL
		wantTag    *goerr.Tag
		wantChat   types.ChatID
	}{
		{name: "Resolved", webhookURL: "abc123", wantChat: "c1"},
		{name: "Unknown webhook", webhookURL: "unknown", wantTag: &types.ErrTagNotFound},
		{name: "Webhook without chat", webhookURL: "unassigned", wantTag: &types.ErrTagUnconfigured},
		{name: "Chat not registered", webhookURL: "dangling", wantTag: &types.ErrTagNotFound},
		{name: "Unparsable telegram id still resolves", webhookURL: "bad-id", wantChat: "c2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat, err := resolver.Resolve(context.Background(), tt.webhookURL)
			if tt.wantTag != nil {
				gt.Error(t, err)
				gt.True(t, goerr.HasTag(err, *tt.wantTag))
				gt.True(t, chat == nil)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, chat.ID, tt.wantChat)
		})
	}
}

func TestResolver_Resolve_StoreError(t *testing.T) {
	resolver := usecase.NewResolver(failingRepository{})

	_, err := resolver.Resolve(context.Background(), "abc123")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, errStore))
	gt.False(t, goerr.HasTag(err, types.ErrTagNotFound))
}
