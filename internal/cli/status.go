package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/information-sharing-networks/blog-demo/internal/config"
	"github.com/information-sharing-networks/blog-demo/internal/harness"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the state of the service and the test store",
	Long: `Check that the blog-server at SERVICE_URL is ready and report its version and backend,
then count the posts in the store named by TEST_DATABASE_URL. Nothing is changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		var errs []error

		client, err := harness.NewClient(cfg.ServiceURL, cfg.RequestTimeout)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "service: %s\n", client.BaseURL())
		if err := client.Ready(ctx); err != nil {
			fmt.Fprintf(out, "  ready:   no (%v)\n", err)
			errs = append(errs, err)
		} else {
			fmt.Fprintln(out, "  ready:   yes")

			res, err := client.Version(ctx)
			switch {
			case err != nil:
				errs = append(errs, err)
			case res.StatusCode != http.StatusOK:
				errs = append(errs, fmt.Errorf("GET /version returned %d", res.StatusCode))
			default:
				var v struct {
					Version string `json:"version"`
					Backend string `json:"backend"`
				}
				if err := res.DecodeJSON(&v); err != nil {
					errs = append(errs, err)
				} else {
					fmt.Fprintf(out, "  version: %s\n  backend: %s\n", v.Version, v.Backend)
				}
			}
		}

		fmt.Fprintf(out, "store:   %s\n", config.RedactURL(cfg.TestDatabaseURL))
		s, err := openStore(ctx)
		if err != nil {
			fmt.Fprintf(out, "  reachable: no (%v)\n", err)
			errs = append(errs, err)
			return errors.Join(errs...)
		}
		defer s.Close()

		count, err := s.CountPosts(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			fmt.Fprintf(out, "  backend: %s\n  posts:   %d\n", s.Backend(), count)
		}

		appLogger.Debug("status checked", slog.Int("errors", len(errs)))
		return errors.Join(errs...)
	},
}
