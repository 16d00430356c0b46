package commands

import (
	"context"
	"fmt"

	"github.com/vortex-fintech/intlphone/catalog"
	"github.com/vortex-fintech/intlphone/config"
	"github.com/vortex-fintech/intlphone/logger"
)

// buildSource returns the catalog source for cfg and a cleanup that
// releases any connections it opened.
func buildSource(ctx context.Context, cfg config.CatalogConfig, log logger.LoggerInterface) (catalog.Source, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var src catalog.Source
	switch cfg.Source {
	case config.SourceEmbedded, "":
		src = catalog.Embedded()
	case config.SourceFile:
		src = catalog.File(cfg.Path)
	case config.SourceHTTP:
		src = catalog.HTTP(cfg.URL, catalog.HTTPOptions{})
	case config.SourceSQL:
		db, err := catalog.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open catalog database: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		src = catalog.SQL(db, cfg.Query)
	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}

	if cfg.Cache.Enabled {
		rdb, err := catalog.NewRedisClient(ctx, cfg.Cache.Redis)
		if err != nil {
			log.Warnw("catalog cache disabled, redis unreachable", "error", err)
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			src = catalog.RedisCache(rdb, cfg.Cache.Redis.Key, cfg.Cache.Redis.TTL, src, log)
		}
	}

	return src, cleanup, nil
}
