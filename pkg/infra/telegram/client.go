package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
)

const (
	DefaultAPIURL   = "https://api.telegram.org"
	DefaultMaxRetry = 2

	defaultBackoff      = 500 * time.Millisecond
	defaultMaxRetryWait = 5 * time.Second
)

// HTTPClient is the subset of *http.Client used by Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends messages through the Telegram Bot API.
//
// Retry policy: network errors, 429 and 5xx responses are retried up to
// maxRetry times. A 429 waits for the retry_after given by Telegram (capped by
// maxRetryWait), other retries back off linearly. Other 4xx responses fail
// immediately.
type Client struct {
	token        string
	apiURL       string
	httpClient   HTTPClient
	maxRetry     int
	backoff      time.Duration
	maxRetryWait time.Duration
}

var _ interfaces.Notifier = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithAPIURL overrides the Bot API base URL
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.apiURL = strings.TrimRight(apiURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxRetry sets how many times a failed request is retried
func WithMaxRetry(n int) Option {
	return func(c *Client) {
		c.maxRetry = max(n, 0)
	}
}

// WithBackoff sets the base wait between retries and the upper bound of a
// server requested wait
func WithBackoff(backoff, maxRetryWait time.Duration) Option {
	return func(c *Client) {
		c.backoff = backoff
		c.maxRetryWait = maxRetryWait
	}
}

// NewClient creates a new Telegram Bot API client. Unlike tgbotapi.NewBotAPI it
// does not call getMe, so no request is made until the first message.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("telegram bot token is required")
	}

	c := &Client{
		token:        token,
		apiURL:       DefaultAPIURL,
		httpClient:   http.DefaultClient,
		maxRetry:     DefaultMaxRetry,
		backoff:      defaultBackoff,
		maxRetryWait: defaultMaxRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SendMessage sends a plain text message to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	logger := ctxlog.From(ctx)

	for attempt := 0; ; attempt++ {
		wait, retryable, err := c.request(ctx, msg)
		if err == nil {
			return nil
		}
		if !retryable || attempt >= c.maxRetry {
			return goerr.Wrap(err, "telegram sendMessage failed",
				goerr.V("chat_id", chatID),
				goerr.V("attempts", attempt+1),
			)
		}

		if wait <= 0 {
			wait = c.backoff * time.Duration(attempt+1)
		}
		logger.Warn("Retrying telegram sendMessage",
			"chat_id", chatID,
			"attempt", attempt+1,
			"wait", wait,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return goerr.Wrap(ctx.Err(), "telegram sendMessage aborted",
				goerr.V("chat_id", chatID),
				goerr.V("attempts", attempt+1),
				goerr.V("last_error", err.Error()),
			)
		case <-timer.C:
		}
	}
}

// request performs one Bot API call. It returns the wait requested by the
// server and whether the failure is worth retrying.
func (c *Client) request(ctx context.Context, chattable tgbotapi.Chattable) (time.Duration, bool, error) {
	transport := &contextClient{ctx: ctx, base: c.httpClient}
	bot := &tgbotapi.BotAPI{Token: c.token, Client: transport}
	bot.SetAPIEndpoint(c.apiURL + "/bot%s/%s")

	_, err := bot.Request(chattable)
	if err == nil {
		return 0, false, nil
	}

	if transport.status == 0 {
		// No response. Context expiry is final; other transport errors are retried.
		return 0, ctx.Err() == nil, goerr.Wrap(stripURL(err), "failed to send request")
	}

	status := transport.status
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		status = apiErr.Code
	}

	wrapped := goerr.Wrap(err, "telegram API error", goerr.V("status", status))
	switch {
	case status == http.StatusTooManyRequests:
		var wait time.Duration
		if apiErr != nil && apiErr.RetryAfter > 0 {
			wait = min(time.Duration(apiErr.RetryAfter)*time.Second, c.maxRetryWait)
		}
		return wait, true, wrapped
	case status >= http.StatusInternalServerError:
		return 0, true, wrapped
	default:
		return 0, false, wrapped
	}
}

// contextClient binds requests built by tgbotapi to ctx and records the
// response status, which tgbotapi drops when the body is not JSON.
type contextClient struct {
	ctx    context.Context
	base   HTTPClient
	status int
}

func (x *contextClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := x.base.Do(req.WithContext(x.ctx))
	if err != nil {
		return nil, err
	}
	x.status = resp.StatusCode
	return resp, nil
}

// stripURL drops the request URL from net/http errors because it contains the bot token
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
