package cli

import (
	"fmt"

	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/harness"
	"github.com/spf13/cobra"
)

var teardownConfirmed bool

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Delete every post in the store",
	Long:  `Irrecoverably delete every post in the store named by TEST_DATABASE_URL. Requires --yes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !teardownConfirmed {
			return fmt.Errorf("teardown deletes every post in %s: rerun with --yes to confirm", config.RedactURL(cfg.TestDatabaseURL))
		}

		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		before, err := s.CountPosts(ctx)
		if err != nil {
			return err
		}
		if err := harness.TearDown(ctx, s); err != nil {
			return err
		}

		appLogger.Info("store cleared")
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d posts\n", before)
		return nil
	},
}

func init() {
	teardownCmd.Flags().BoolVarP(&teardownConfirmed, "yes", "y", false, "confirm that every post should be deleted")
}
