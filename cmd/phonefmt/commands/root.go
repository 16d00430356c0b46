package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vortex-fintech/intlphone/catalog"
	"github.com/vortex-fintech/intlphone/config"
	"github.com/vortex-fintech/intlphone/logger"
)

type app struct {
	configPath string
	envFile    string

	cfg config.Config
	log logger.LoggerInterface
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "phonefmt",
		Short:         "Format phone numbers against per-country masks",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath, a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg

			l, err := logger.New(cfg.Service, cfg.Env)
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.SafeSync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with INTLPHONE_* variables (skipped if absent)")

	root.AddCommand(formatCmd(a), countriesCmd(a), serveCmd(a))
	return root
}

// loadCatalog builds the configured source and loads it once.
func (a *app) loadCatalog(ctx context.Context, opts catalog.Options) (*catalog.Catalog, func(), error) {
	src, cleanup, err := buildSource(ctx, a.cfg.Catalog, a.log)
	if err != nil {
		return nil, nil, err
	}
	if opts.Logger == nil {
		opts.Logger = a.log
	}
	cat := catalog.New(src, opts)

	lctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := cat.Load(lctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return cat, cleanup, nil
}
