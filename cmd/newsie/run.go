package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"newsie/internal/observability/logging"
	"newsie/internal/usecase/dispatch"
)

func newRunCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every query once",
		Long: `Fetch top headlines for every query and post them to Slack.

The command exits non-zero when any query could not be fetched or any message
could not be delivered. With --dry-run the Block Kit JSON of each message is
printed instead of posted and no Slack token is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := a.loadQueries()
			if err != nil {
				return err
			}
			svc, err := a.newService(cmd.OutOrStdout(), dryRun)
			if err != nil {
				return err
			}

			report := svc.Run(logging.WithLogger(cmd.Context(), a.logger), queries)
			printReport(cmd.ErrOrStderr(), report)

			if !report.OK() {
				delivered, failed, errored := report.Totals()
				return fmt.Errorf("run %s finished with status %s: %d delivered, %d failed, %d queries errored",
					report.RunID, report.Status(), delivered, failed, errored)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print messages as Block Kit JSON instead of posting them")
	return cmd
}

// printReport writes one line per query.
func printReport(w io.Writer, report *dispatch.RunReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tSTATE\tCHANNEL\tARTICLES\tSKIPPED\tDELIVERED\tERROR")
	for _, q := range report.Queries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d/%d\t%s\n",
			q.Query, q.State, q.Channel, q.Fetched, len(q.Skipped),
			q.DeliveredCount(), len(q.Results), firstError(q))
	}
	_ = tw.Flush()

	delivered, failed, errored := report.Totals()
	fmt.Fprintf(w, "run %s: %s (%d delivered, %d failed, %d queries errored) in %s\n",
		report.RunID, report.Status(), delivered, failed, errored, report.Duration.Round(time.Millisecond))
}

func firstError(q dispatch.QueryReport) string {
	if q.Err != nil {
		return q.Err.Error()
	}
	for _, r := range q.Results {
		if r.Err != nil {
			return r.Err.Error()
		}
	}
	return "-"
}
