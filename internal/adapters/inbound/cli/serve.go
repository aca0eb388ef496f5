package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	mcpadapter "github.com/laundrydesk/laundrydesk/internal/adapters/inbound/mcp"
	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/scheduler"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

func newServeCmd(a *app) *cobra.Command {
	var noScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the laundrydesk MCP server (stdio) and the snapshot scheduler",
		Long: `Start the laundrydesk MCP server using stdio transport, so assistants can
list, create and update orders. While it runs, metrics snapshots are taken on
snapshot_schedule. Without a valid login the server is read-only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.run(cmd, func() error {
				session, err := a.session()
				switch {
				case errors.Is(err, domain.ErrUnauthenticated):
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: no credentials given, serving read-only")
				case err != nil:
					return err
				}

				s := mcpadapter.NewLaundryMCPServer(mcpadapter.Deps{
					Orders:    a.orders,
					Customers: a.customers,
					Dashboard: a.dashboard,
					Session:   session,
				}, version)

				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					defer stop()
					return server.NewStdioServer(s).Listen(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
				})
				if !noScheduler && a.cfg.SnapshotSchedule != "" {
					sched := scheduler.New(a.loc, a.log)
					err := sched.Add("metrics_snapshot", a.cfg.SnapshotSchedule, func(ctx context.Context) error {
						_, err := a.dashboard.Snapshot(ctx)
						return err
					})
					if err != nil {
						return err
					}
					g.Go(func() error { return sched.Run(gctx) })
				}

				if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Do not take scheduled metrics snapshots")
	return cmd
}
