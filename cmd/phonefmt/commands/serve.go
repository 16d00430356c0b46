package commands

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vortex-fintech/intlphone/catalog"
	"github.com/vortex-fintech/intlphone/errors"
	"github.com/vortex-fintech/intlphone/logger"
	"github.com/vortex-fintech/intlphone/metrics"
	"github.com/vortex-fintech/intlphone/retry"
	"github.com/vortex-fintech/intlphone/shutdown"
)

const namespace = "intlphone"

func serveCmd(a *app) *cobra.Command {
	var reloadEvery time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the catalog and serve Prometheus metrics with health and readiness probes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			reg := prometheus.NewRegistry()
			catMetrics, err := catalog.NewPromMetrics(reg, namespace)
			if err != nil {
				return err
			}
			stopMetrics, err := shutdown.NewPromMetrics(reg, namespace)
			if err != nil {
				return err
			}

			src, cleanup, err := buildSource(ctx, a.cfg.Catalog, a.log)
			if err != nil {
				return err
			}
			defer cleanup()
			cat := catalog.New(src, catalog.Options{Logger: a.log, Metrics: catMetrics})

			handler, _, err := metrics.New(metrics.Options{
				Registry:     reg,
				Ready:        cat.Check,
				CheckTimeout: a.cfg.Server.CheckTimeout,
			})
			if err != nil {
				return err
			}

			lis, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return err
			}
			a.log.Infow("serving probes", "addr", lis.Addr().String())

			m := shutdown.New(shutdown.Config{
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				HandleSignals:   true,
				Logger:          a.log,
				Metrics:         stopMetrics,
			})
			m.Add(&shutdown.HTTP{
				Srv:     &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second},
				Lis:     lis,
				NameStr: "probes",
			})
			m.Add(newCatalogLoader(cat, reloadEvery, a.log))

			return m.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&reloadEvery, "reload-every", 0, "reload the catalog on this interval (0 disables)")
	return cmd
}

// catalogLoader keeps retrying the first load, then reloads on a ticker.
type catalogLoader struct {
	cat   *catalog.Catalog
	every time.Duration
	log   logger.LoggerInterface
	stop  chan struct{}
	once  sync.Once
}

func newCatalogLoader(cat *catalog.Catalog, every time.Duration, log logger.LoggerInterface) *catalogLoader {
	return &catalogLoader{cat: cat, every: every, log: log, stop: make(chan struct{})}
}

func (l *catalogLoader) Name() string { return "catalog-loader" }

func (l *catalogLoader) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	policy := retry.Policy{MaxInterval: 30 * time.Second, MaxElapsed: 24 * time.Hour, MaxTries: 1 << 20}
	if err := retry.Do(ctx, policy, l.load); err != nil {
		return err
	}
	if l.every <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	t := time.NewTicker(l.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := l.cat.Reload(ctx); err != nil {
				l.log.Warnw("catalog reload failed, keeping previous directory", "error", err)
			}
		}
	}
}

// load marks rejected data as permanent: retrying the same source only
// helps when it was unreachable.
func (l *catalogLoader) load(ctx context.Context) error {
	err := l.cat.Load(ctx)
	if err == nil {
		return nil
	}
	switch errors.ToErrorResponse(err).Reason {
	case "validation_failed", "catalog_empty":
		l.log.Errorw("catalog data rejected, not retrying", "error", err)
		return retry.Permanent(err)
	}
	return err
}

func (l *catalogLoader) GracefulStopWithTimeout(context.Context) error {
	l.ForceStop()
	return nil
}

func (l *catalogLoader) ForceStop() {
	l.once.Do(func() { close(l.stop) })
}
