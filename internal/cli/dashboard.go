package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total backups, success rate, data protected and open alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			stats, err := e.services.Stats.Compute(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.printJSON(stats)
			}
			renderStats(a.out, stats)
			return nil
		},
	}
}

func newMachinesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "machines",
		Aliases: []string{"ls"},
		Short:   "List protected machines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			machines, err := e.services.Machine.List(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.printJSON(machines)
			}
			renderMachines(a.out, machines, a.now())
			return nil
		},
	}
}

func newLogsCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List the most recent backup runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			logs, err := e.services.BackupLog.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.printJSON(logs)
			}
			renderLogs(a.out, logs, a.now())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func newAlertsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List unresolved alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			alerts, err := e.services.Alert.ListUnresolved(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.printJSON(alerts)
			}
			renderAlerts(a.out, alerts, a.now())
			return nil
		},
	}
}

func newJobsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List backup job definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			jobs, err := e.services.BackupJob.List(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.printJSON(jobs)
			}
			renderJobs(a.out, jobs)
			return nil
		},
	}
}
