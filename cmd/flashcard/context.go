package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/backend"
	"github.com/amirgolp/flashcard/internal/config"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/query"
	"github.com/amirgolp/flashcard/internal/services/telegram"
	"github.com/amirgolp/flashcard/internal/session"
	"github.com/amirgolp/flashcard/internal/state"
)

type commandContext struct {
	configFlag *string
	apiURLFlag *string
	jsonFlag   *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	telegramOptions []telegram.Option
}

func newCommandContext(configFlag, apiURLFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiURLFlag: apiURLFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.apiURLFlag != nil && strings.TrimSpace(*c.apiURLFlag) != "" {
			cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(*c.apiURLFlag), "/")
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// runtime is everything a command needs to talk to the backend. It lives for
// one invocation.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *state.Store
	session *session.Session
	client  *backend.Client
	svc     *api.Service

	closers []io.Closer
}

func (c *commandContext) openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg}

	logger, logCloser, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	rt.logger = logging.WithContext(ctx, logger)
	rt.closers = append(rt.closers, logCloser)

	store, err := state.Open(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.store = store
	rt.closers = append(rt.closers, store)

	rt.session = session.New(store, rt.logger)
	if err := rt.session.Open(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	rt.client, err = backend.NewClient(
		backend.Config{
			BaseURL:           cfg.API.BaseURL,
			Timeout:           cfg.Timeout(),
			RequestsPerSecond: cfg.API.RequestsPerSecond,
			Burst:             cfg.API.Burst,
		},
		backend.WithTokenSource(rt.session),
		backend.WithLogger(rt.logger),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}

	cache, err := query.New(query.Options{
		FreshFor:   cfg.FreshFor(),
		MaxEntries: cfg.Cache.MaxEntries,
		Retries:    cfg.Cache.QueryRetries,
		Retryable:  api.Retryable,
		Logger:     rt.logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.svc = api.NewService(rt.client, cache, api.Options{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Logger:         rt.logger,
	})
	return rt, nil
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
	r.closers = nil
}

// withRuntime runs fn with a fresh runtime and a request-scoped context.
func (c *commandContext) withRuntime(cmd *cobra.Command, fn func(context.Context, *runtime) error) error {
	ctx := logging.WithRequestID(cmd.Context())
	rt, err := c.openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

// withSession is withRuntime for commands that need a login.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(context.Context, *runtime) error) error {
	return c.withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
		if err := rt.session.RequireAuth(); err != nil {
			return err
		}
		return fn(ctx, rt)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// formatError renders err as the single line main prints.
func formatError(err error) string {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		return session.ErrNotAuthenticated.Error()
	case backend.IsUnauthorized(err):
		return fmt.Sprintf("%v (run 'flashcard login' again)", err)
	default:
		return err.Error()
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
