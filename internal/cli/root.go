// Package cli defines the mediashelf command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/config"
	"github.com/mrlokans/mediashelf/internal/entrypoint"
	"github.com/mrlokans/mediashelf/internal/logger"
)

// Execute runs the root command with os.Args.
func Execute(version, commit string) error {
	root := NewRootCommand(version)
	root.Version = fmt.Sprintf("%s (commit %s)", version, commit)
	return root.Execute()
}

// NewRootCommand builds the command tree. Running it without a
// subcommand starts the server.
func NewRootCommand(version string) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "mediashelf",
		Short:         "Media catalog with provider enrichment, ratings and favorites",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (overrides DATABASE_PATH)")

	load := func() (*config.Config, *zap.Logger, error) {
		cfg := config.NewConfig()
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize logger: %w", err)
		}
		return cfg, log, nil
	}

	serve := newServeCommand(load, version)
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		newSearchCommand(load),
		newEnrichCommand(load),
		newUsersCommand(load),
		newCleanupCommand(load),
	)
	return root
}

type loader func() (*config.Config, *zap.Logger, error)

// withApp loads configuration, opens the app and closes it after fn.
func withApp(load loader, fn func(app *entrypoint.App) error) error {
	cfg, log, err := load()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	app, err := entrypoint.NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}
