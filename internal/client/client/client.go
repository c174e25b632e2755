package client

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/client/cli"
	"github.com/dmitrijs2005/hexsocial/internal/client/config"
	"github.com/dmitrijs2005/hexsocial/internal/client/services"
	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/client/storage/memory"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

// Client is the assembled CLI application.
type Client struct {
	App     *cli.App
	Session *session.Manager
	API     *api.Client

	cfg     *config.Config
	log     logging.Logger
	durable durableStore
}

type Options struct {
	In  io.Reader
	Out io.Writer

	// LogOutput receives structured logs. Defaults to stderr.
	LogOutput io.Writer
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*Client, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	log := logging.New(opts.LogOutput, cfg.LogLevel)

	durable := openDurable(ctx, cfg, log)

	var durableTier session.Store
	if durable != nil {
		durableTier = durable
	}
	manager := session.NewManager(durableTier, memory.New(), log.With("component", "session"))

	apiClient, err := api.New(cfg.APIBaseURL, manager, api.Options{
		Timeout: cfg.RequestTimeout,
		Logger:  log.With("component", "api"),
	})
	if err != nil {
		if durable != nil {
			_ = durable.Close()
		}
		return nil, fmt.Errorf("api client: %w", err)
	}

	svc := cli.Services{
		Auth:          services.NewAuthService(apiClient, manager, log.With("component", "auth")),
		Feed:          services.NewFeedService(apiClient, cfg.CacheTTL, log.With("component", "feed")),
		Communities:   services.NewCommunityService(apiClient),
		Notifications: services.NewNotificationService(apiClient, cfg.CacheTTL, log.With("component", "notifications")),
		Profile:       services.NewProfileService(apiClient),
	}

	app := cli.NewApp(svc, manager, cli.Options{
		In:     opts.In,
		Out:    opts.Out,
		Logger: log.With("component", "cli"),
	})

	return &Client{
		App:     app,
		Session: manager,
		API:     apiClient,
		cfg:     cfg,
		log:     log,
		durable: durable,
	}, nil
}

// Run serves metrics when configured and blocks in the REPL.
func (c *Client) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.cfg.MetricsAddr != "" {
		go func() {
			if err := Serve(ctx, c.cfg.MetricsAddr); err != nil {
				c.log.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
	}

	c.log.Info(ctx, "starting", "api", c.API.BaseURL(), "persistence", c.Session.Persistence(ctx))
	c.App.Run(ctx)
}

// Close releases the durable tier.
func (c *Client) Close() error {
	if c.durable == nil {
		return nil
	}
	return c.durable.Close()
}
