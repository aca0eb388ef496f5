package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/tui"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

func newCustomerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customer",
		Aliases: []string{"customers"},
		Short:   "Manage saved customers",
	}
	cmd.AddCommand(newCustomerAddCmd(a))
	cmd.AddCommand(newCustomerListCmd(a))
	cmd.AddCommand(newCustomerEditCmd(a))
	return cmd
}

func newCustomerAddCmd(a *app) *cobra.Command {
	var (
		customer customerFlags
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a customer for reuse in new orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(domain.Session) error {
				c, err := a.customers.Add(customer.draft())
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), c)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved customer %s (%s)\n", c.Name, tui.ShortID(c.ID))
				return nil
			})
		},
	}

	customer.bind(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newCustomerListCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				customers := a.customers.List()
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), customers)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderCustomers(customers))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newCustomerEditCmd(a *app) *cobra.Command {
	var customer customerFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Overwrite a saved customer",
		Long:  "Overwrite a saved customer. Fields without a flag keep their value. Existing orders keep the copy they were created with.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(domain.Session) error {
				id, err := resolveID(customerIDs(a), args[0], "customer")
				if err != nil {
					return err
				}
				current, err := a.customers.Get(id)
				if err != nil {
					return err
				}
				c, err := a.customers.Overwrite(id, customer.over(cmd, current))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated customer %s (%s)\n", c.Name, tui.ShortID(c.ID))
				return nil
			})
		},
	}

	customer.bind(cmd)
	return cmd
}
