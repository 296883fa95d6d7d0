package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/internal/platform"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Start the analysis API server with the full backing stack\n(PostgreSQL, Redis, MinIO, OpenSearch, Kafka) from configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := platform.LoadConfig(configPath)
			if err != nil {
				return err
			}

			logger, err := platform.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			logger = logger.Named("apiserver")
			logging.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return platform.RunServer(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to configuration file")

	return cmd
}
