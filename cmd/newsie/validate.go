package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsie/internal/config"
	"newsie/internal/usecase/layout"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check configuration and print the active queries",
		Long: `Load the environment configuration and the query file, report any
problem, and print the queries that a run would use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := a.loadQueries()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := a.cfg.RequireCredentials(false); err != nil {
				fmt.Fprintf(out, "# warning: %v\n", err)
			}
			fmt.Fprintf(out, "# timezone: %s, group size: %d (up to %d blocks per message, ceiling %d)\n",
				a.cfg.Dispatch.Timezone, a.cfg.Dispatch.GroupSize,
				layout.MaxUnits(a.cfg.Dispatch.GroupSize), a.cfg.Slack.BlockCeiling)
			for _, q := range queries {
				fmt.Fprintf(out, "# %s -> %s\n", q.Name(), q.ChannelOr(a.cfg.Slack.DefaultChannel))
			}

			data, err := config.MarshalQueries(queries)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}
