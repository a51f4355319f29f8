package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/information-sharing-networks/blog-demo/internal/harness"
	"github.com/information-sharing-networks/blog-demo/internal/harness/framework"
	"github.com/spf13/cobra"
)

var (
	verifyFilters  framework.RegexFilters
	verifyDebug    bool
	verifyDebugAll bool
	verifySeed     int64
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the end to end scenarios against a running service",
	Long: `Run every scenario (seed, call the API, check the response and the store, clear the store)
against the service at SERVICE_URL (or --url).

The service must be using the store named by TEST_DATABASE_URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		client, err := harness.NewClient(cfg.ServiceURL, cfg.RequestTimeout)
		if err != nil {
			return err
		}
		if err := client.Ready(ctx); err != nil {
			return fmt.Errorf("service at %s is not ready: %w", cfg.ServiceURL, err)
		}

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		env := &harness.Env{
			Client:    client,
			Store:     s,
			Generator: harness.NewGenerator(verifySeed),
			SeedCount: cfg.SeedCount,
		}

		if desc := verifyFilters.Describe(); desc != "" {
			fmt.Fprintf(out, "Some tests will be skipped based on the filter criteria for this test run:\n%s\n\n", desc)
		}
		fmt.Fprintf(out, "Running scenarios against %s (%s store)\n\n", client.BaseURL(), s.Backend())

		testLogger := &framework.ConsoleTestLogger{
			Out:                  out,
			DebugOutputOnFailure: verifyDebug || verifyDebugAll,
			DebugOutputOnSuccess: verifyDebugAll,
		}

		results := framework.Run(verifyFilters.AsFilter, testLogger, func(c *framework.Context) {
			for _, sc := range harness.Scenarios() {
				c.Run(sc.Name, func(c *framework.Context) {
					sc.Run(ctx, c, env)
				})
			}
		})

		fmt.Fprintln(out)
		framework.PrintResults(out, results)

		appLogger.Info("verify finished",
			slog.Int("tests", len(results.Tests)),
			slog.Int("failures", len(results.Failures)),
		)

		if !results.OK() {
			rerun := framework.RerunCommand(append([]string{"blogctl"}, os.Args[1:]...), results)
			fmt.Fprintf(out, "\nTo re-run the failed scenarios:\n  %s\n", rerun)
			return fmt.Errorf("%d of %d scenarios failed", len(results.Failures), len(results.Tests))
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().Var(&verifyFilters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	verifyCmd.Flags().Var(&verifyFilters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	verifyCmd.Flags().BoolVar(&verifyDebug, "debug", false, "show debug output for failed scenarios")
	verifyCmd.Flags().BoolVar(&verifyDebugAll, "debug-all", false, "show debug output for all scenarios")
	verifyCmd.Flags().Int64Var(&verifySeed, "seed", 0, "random seed for generated posts (0 = random)")
}
