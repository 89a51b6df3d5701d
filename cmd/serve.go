package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/phonix/internal/logging"
	"github.com/abhisek/phonix/internal/scoring"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference scoring service",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLevel(cmd)
		if err != nil {
			return err
		}
		logger := logging.Setup(os.Stderr, logging.Options{Level: level})

		cfg := scoring.ConfigFromEnv()
		flags := cmd.Flags()
		if v, _ := flags.GetString("addr"); v != "" {
			cfg.Addr = v
		}
		if v, _ := flags.GetString("progress"); v != "" {
			cfg.ProgressPath = v
		}
		if v, _ := flags.GetString("catalog"); v != "" {
			cfg.CatalogPath = v
		}
		if v, _ := flags.GetString("redis"); v != "" {
			cfg.RedisAddr = v
		}
		if flags.Changed("seed") {
			cfg.Seed, _ = flags.GetUint64("seed")
		}

		catalog, err := loadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var idem scoring.IdempotencyStore
		if cfg.RedisAddr != "" {
			r, err := scoring.NewRedisIdempotency(ctx, cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				return err
			}
			defer r.Close()
			idem = r
			logger.Info("using redis idempotency store", "addr", cfg.RedisAddr)
		}

		srv := scoring.NewServer(cfg, catalog, idem, logger)
		logger.Info("catalog loaded", "phonemes", len(catalog.Phonemes), "progress", cfg.ProgressPath)
		return srv.ListenAndServe(ctx)
	},
}

func loadCatalog(path string) (*scoring.Catalog, error) {
	if path == "" {
		return scoring.DefaultCatalog()
	}
	c, err := scoring.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PHONIX_ADDR, default :8000)")
	serveCmd.Flags().String("progress", "", "Progress file (overrides PHONIX_PROGRESS_FILE)")
	serveCmd.Flags().String("catalog", "", "Phoneme catalog YAML (overrides PHONIX_CATALOG)")
	serveCmd.Flags().String("redis", "", "Redis address for the idempotency store (overrides PHONIX_REDIS_ADDR)")
	serveCmd.Flags().Uint64("seed", 0, "Seed for deterministic question selection")
}
