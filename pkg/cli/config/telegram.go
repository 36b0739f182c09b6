package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/infra/telegram"
	"github.com/urfave/cli/v3"
)

// Telegram holds Telegram Bot API configuration
type Telegram struct {
	BotToken string `masq:"secret"`
	APIURL   string
	MaxRetry int
}

// Flags returns CLI flags for Telegram configuration
func (c *Telegram) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "telegram-bot-token",
			Usage:       "Telegram bot token",
			Required:    true,
			Destination: &c.BotToken,
			Sources:     cli.EnvVars("PUSHGRAM_TELEGRAM_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "telegram-api-url",
			Usage:       "Telegram Bot API base URL",
			Value:       telegram.DefaultAPIURL,
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("PUSHGRAM_TELEGRAM_API_URL"),
		},
		&cli.IntFlag{
			Name:        "telegram-retry",
			Usage:       "Number of retries of a failed sendMessage call",
			Value:       telegram.DefaultMaxRetry,
			Destination: &c.MaxRetry,
			Sources:     cli.EnvVars("PUSHGRAM_TELEGRAM_RETRY"),
		},
	}
}

// Configure creates the Telegram client
func (c *Telegram) Configure() (*telegram.Client, error) {
	client, err := telegram.NewClient(c.BotToken,
		telegram.WithAPIURL(c.APIURL),
		telegram.WithMaxRetry(c.MaxRetry),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure telegram client")
	}
	return client, nil
}
