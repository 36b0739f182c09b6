package cli_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pushgram/pkg/cli"
)

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"pushgram", "--log-level", "verbose", "serve", "--telegram-bot-token", "x"})
	gt.Error(t, err)
}

func TestRun_ServeRequiresToken(t *testing.T) {
	t.Setenv("PUSHGRAM_TELEGRAM_BOT_TOKEN", "")
	err := cli.Run(context.Background(), []string{"pushgram", "serve"})
	gt.Error(t, err)
}

func TestRun_ServeUnknownStore(t *testing.T) {
	err := cli.Run(context.Background(), []string{"pushgram", "serve", "--telegram-bot-token", "x", "--store", "redis"})
	gt.Error(t, err)
}

func TestRun_ServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cli.Run(ctx, []string{"pushgram", "serve", "--telegram-bot-token", "x", "--addr", "127.0.0.1:0"})
	gt.NoError(t, err)
}
