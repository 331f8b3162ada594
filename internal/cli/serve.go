package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/entrypoint"
)

func newServeCommand(load loader, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := entrypoint.Run(cfg, log, version); err != nil {
				log.Error("server failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
