// Package telegram checks Telegram bot credentials before they are handed to
// the backend as a storage relay.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"

	"github.com/amirgolp/flashcard/internal/services"
)

const defaultTimeout = 10 * time.Second

type options struct {
	serverURL string
	client    bot.HttpClient
	timeout   time.Duration
}

// Option customises Verify.
type Option func(*options)

// WithServerURL points Verify at a different Bot API host.
func WithServerURL(url string) Option {
	return func(o *options) {
		o.serverURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}

// WithHTTPClient overrides the HTTP client used for the Bot API call.
func WithHTTPClient(client bot.HttpClient) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithTimeout bounds the getMe round trip.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Verify calls getMe with token and returns the bot's username.
func Verify(ctx context.Context, token string, opts ...Option) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", services.Wrap(services.ErrValidation, "telegram", "verify token", "bot token is required", nil)
	}
	if !strings.Contains(token, ":") {
		return "", services.Wrap(services.ErrValidation, "telegram", "verify token", "bot token must look like <id>:<secret>", nil)
	}

	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}

	botOpts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(o.timeout, o.client),
	}
	if o.serverURL != "" {
		botOpts = append(botOpts, bot.WithServerURL(o.serverURL))
	}
	b, err := bot.New(token, botOpts...)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "telegram", "create client", "", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	me, err := b.GetMe(ctx)
	if err != nil {
		return "", services.Wrap(services.ErrExternal, "telegram", "getMe", "token rejected or Bot API unreachable", err)
	}
	if me == nil || me.Username == "" {
		return "", services.Wrap(services.ErrExternal, "telegram", "getMe", "response carried no bot username", nil)
	}
	if !me.IsBot {
		return "", services.Wrap(services.ErrValidation, "telegram", "getMe", fmt.Sprintf("%s is not a bot account", me.Username), nil)
	}
	return me.Username, nil
}
