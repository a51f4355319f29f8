package cli

import (
	"fmt"
	"log/slog"

	"github.com/information-sharing-networks/blog-demo/internal/harness"
	"github.com/spf13/cobra"
)

var (
	seedCount    int
	seedValue    int64
	fixturesPath string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert synthetic posts into the store",
	Long: `Insert posts into the store as a single batch.

By default SEED_COUNT (or --count) synthetic posts are generated. Use --seed for a
repeatable set of posts, or --fixtures to load posts from a YAML file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		var n int64
		if fixturesPath != "" {
			posts, err := harness.LoadFixtures(fixturesPath)
			if err != nil {
				return err
			}
			n, err = harness.InsertPosts(ctx, s, posts)
			if err != nil {
				return err
			}
		} else {
			count := cfg.SeedCount
			if cmd.Flags().Changed("count") {
				count = seedCount
			}
			n, err = harness.SeedPosts(ctx, s, harness.NewGenerator(seedValue), count)
			if err != nil {
				return err
			}
		}

		appLogger.Info("seeded posts",
			slog.Int64("count", n),
			slog.String("backend", s.Backend()),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d posts\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", harness.DefaultSeedCount, "number of posts to generate (default SEED_COUNT)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed for repeatable data (0 = random)")
	seedCmd.Flags().StringVarP(&fixturesPath, "fixtures", "f", "", "YAML file of posts to insert instead of generated data")
	seedCmd.MarkFlagsMutuallyExclusive("count", "fixtures")
}
