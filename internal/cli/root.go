package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
	"github.com/information-sharing-networks/blog-demo/internal/store"
	"github.com/information-sharing-networks/blog-demo/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.HarnessEnvironment
	appLogger *slog.Logger

	databaseURLFlag string
	serviceURLFlag  string
)

var rootCmd = &cobra.Command{
	Use:               "blogctl",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
	Short:             "blog-server test harness CLI",
	Long: `blogctl seeds, clears and verifies a blog-server deployment.

The store is opened directly from TEST_DATABASE_URL (or --database-url).
seed, teardown and verify change the contents of that store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// flags take precedence over the environment
		var err error
		cfg, err = config.NewHarnessConfig(config.HarnessOverrides{
			TestDatabaseURL: databaseURLFlag,
			ServiceURL:      serviceURLFlag,
		})
		if err != nil {
			log.Printf("failed to load configuration: %v", err.Error())
			return err
		}

		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
		return nil
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURLFlag, "database-url", "", "store connection string (overrides TEST_DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&serviceURLFlag, "url", "", "blog-server base URL (overrides SERVICE_URL)")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(teardownCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)
}

// openStore connects to the harness store. Schema migrations are not applied: use blogctl migrate.
func openStore(ctx context.Context) (store.PostStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	s, err := store.Open(ctx, store.Options{
		URL:          cfg.TestDatabaseURL,
		DatabaseName: cfg.DatabaseName,
		Logger:       appLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", config.RedactURL(cfg.TestDatabaseURL), err)
	}
	appLogger.Debug("store opened",
		slog.String("backend", s.Backend()),
		slog.String("url", config.RedactURL(cfg.TestDatabaseURL)),
	)
	return s, nil
}
