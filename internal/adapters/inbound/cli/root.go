package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "laundrydesk",
		Short:         "Order book for the laundry counter",
		Long:          "laundrydesk keeps the orders and customers of a laundry counter on this device, with a dashboard, reports and printable receipts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Path to .laundrydesk.yaml (default: ./.laundrydesk.yaml)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "Override the data directory")
	pf.StringVar(&a.flags.user, "user", "", "Operator username (or LAUNDRYDESK_USER)")
	pf.StringVar(&a.flags.password, "password", "", "Operator password (or LAUNDRYDESK_PASSWORD)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newHashPasswordCmd())
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newOrderCmd(a))
	cmd.AddCommand(newCustomerCmd(a))
	cmd.AddCommand(newDashboardCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newSnapshotCmd(a))
	cmd.AddCommand(newServeCmd(a))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
