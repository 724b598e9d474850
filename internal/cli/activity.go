package cli

import (
	"github.com/spf13/cobra"

	"github.com/edvin/backupdash/internal/backend"
)

func newActivityCommand(a *app) *cobra.Command {
	var (
		granularity string
		days        int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Chart backup runs per day or hour",
		Long: "Chart backup runs per day or hour, split by outcome.\n" +
			"Without flags the dashboard defaults from the config are used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			if granularity == "" {
				granularity = e.cfg.ActivityGranularity
			}
			if days == 0 {
				days = e.cfg.ActivityDays
			}

			g, err := backend.ParseGranularity(granularity)
			if err != nil {
				return err
			}

			buckets, err := e.services.Activity.Series(cmd.Context(), g, days)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.printJSON(buckets)
			}
			renderActivity(a.out, buckets, g)
			return nil
		},
	}

	cmd.Flags().StringVarP(&granularity, "granularity", "g", "", "bucket width: day or hour")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "number of days to cover")
	return cmd
}
