package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/tui"
	"github.com/laundrydesk/laundrydesk/internal/application"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

func newDashboardCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show order counts and revenue with day-over-day change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				d := a.dashboard.Dashboard(cmd.Context())
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), d)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderDashboard(d, a.cfg.Currency.Symbol))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		top     int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show status distribution, daily revenue and top customers and items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				r := a.dashboard.Report(top)
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), r)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(r, a.cfg.Currency.Symbol))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", application.DefaultTopLimit, "Number of top customers and items to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Record today's metrics for tomorrow's dashboard deltas",
		Long:  "Record the current metrics. The dashboard compares against the latest snapshot taken before today. `laundrydesk serve` takes one on snapshot_schedule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(domain.Session) error {
				snap, err := a.dashboard.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot saved: %d orders, %d pending, %s revenue\n",
					snap.TotalOrders, snap.PendingOrders, tui.Money(a.cfg.Currency.Symbol, snap.Revenue))
				return nil
			})
		},
	}
}
