package cli

import (
	"fmt"
	"log/slog"

	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations to the store",
	Long: `Apply the goose migrations (postgres, sqlite) or create the indexes (mongodb)
for the store named by TEST_DATABASE_URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := store.Migrate(cmd.Context(), store.Options{
			URL:          cfg.TestDatabaseURL,
			DatabaseName: cfg.DatabaseName,
			Logger:       appLogger,
		})
		if err != nil {
			return err
		}
		appLogger.Info("migrations applied", slog.String("url", config.RedactURL(cfg.TestDatabaseURL)))
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}
