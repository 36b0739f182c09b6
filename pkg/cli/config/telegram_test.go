package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pushgram/pkg/cli/config"
)

func TestTelegram_Configure(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		cfg := &config.Telegram{BotToken: "123:abc", APIURL: "http://localhost:8081", MaxRetry: 1}
		client, err := cfg.Configure()
		gt.NoError(t, err)
		gt.V(t, client).NotNil()
	})

	t.Run("empty token", func(t *testing.T) {
		cfg := &config.Telegram{}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}

func TestSentry_Configure_Disabled(t *testing.T) {
	cfg := &config.Sentry{}
	gt.False(t, cfg.Enabled())
	gt.NoError(t, cfg.Configure())
}
