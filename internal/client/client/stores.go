package client

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dmitrijs2005/hexsocial/internal/client/config"
	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/client/storage/redis"
	"github.com/dmitrijs2005/hexsocial/internal/client/storage/sqlite"
	"github.com/dmitrijs2005/hexsocial/internal/filex"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

// DatabaseFile is the SQLite file created in the data directory.
const DatabaseFile = "session.db"

type durableStore interface {
	session.Store
	io.Closer
}

// openDurable opens the configured durable tier. A tier that cannot be
// opened is logged and reported as nil, so the client falls back to
// session-only storage instead of refusing to start.
func openDurable(ctx context.Context, cfg *config.Config, log logging.Logger) durableStore {
	s, err := dialDurable(ctx, cfg)
	if err != nil {
		log.Warn(ctx, "durable token storage unavailable, sessions will not survive a restart",
			"backend", cfg.DurableBackend, "error", err)
		return nil
	}
	log.Debug(ctx, "durable token storage ready", "backend", cfg.DurableBackend)
	return s
}

func dialDurable(ctx context.Context, cfg *config.Config) (durableStore, error) {
	switch cfg.DurableBackend {
	case config.BackendRedis:
		return redis.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	case config.BackendSQLite, "":
		dir, err := filex.EnsureDataDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		s, err := sqlite.Open(ctx, filepath.Join(dir, DatabaseFile))
		if err != nil {
			return nil, err
		}
		return s.WithPollInterval(cfg.WatchInterval), nil

	default:
		return nil, fmt.Errorf("unknown durable backend %q", cfg.DurableBackend)
	}
}
