package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/tui"
	"github.com/laundrydesk/laundrydesk/internal/domain"
	"github.com/laundrydesk/laundrydesk/internal/domain/search"
)

func newOrderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "order",
		Aliases: []string{"orders"},
		Short:   "Create, list and change orders",
	}
	cmd.AddCommand(newOrderCreateCmd(a))
	cmd.AddCommand(newOrderListCmd(a))
	cmd.AddCommand(newOrderShowCmd(a))
	cmd.AddCommand(newOrderReceiptCmd(a))
	cmd.AddCommand(newOrderUpdateCmd(a))
	cmd.AddCommand(newOrderStatusCmd(a))
	cmd.AddCommand(newOrderBulkStatusCmd(a))
	cmd.AddCommand(newOrderDeleteCmd(a))
	return cmd
}

// customerFlags are shared by order create/update and customer add/edit.
type customerFlags struct {
	name    string
	phone   string
	address string
}

func (f *customerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Customer name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Customer phone (digits only are kept, at most 10)")
	cmd.Flags().StringVar(&f.address, "address", "", "Customer address")
}

func (f *customerFlags) draft() domain.CustomerDraft {
	return domain.CustomerDraft{Name: f.name, Phone: f.phone, Address: f.address}
}

// changed reports whether any customer flag was given on the command line.
func (f *customerFlags) changed(cmd *cobra.Command) bool {
	flags := cmd.Flags()
	return flags.Changed("name") || flags.Changed("phone") || flags.Changed("address")
}

// over returns current with only the given flags applied.
func (f *customerFlags) over(cmd *cobra.Command, current domain.Customer) domain.CustomerDraft {
	d := domain.CustomerDraft{Name: current.Name, Phone: current.Phone, Address: current.Address}
	flags := cmd.Flags()
	if flags.Changed("name") {
		d.Name = f.name
	}
	if flags.Changed("phone") {
		d.Phone = f.phone
	}
	if flags.Changed("address") {
		d.Address = f.address
	}
	return d
}

func newOrderCreateCmd(a *app) *cobra.Command {
	var (
		customer   customerFlags
		customerID string
		items      []string
		notes      string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending order",
		Long: `Create a pending order. Items are given as NAME:PRICE[:QTY], for example
  --item "Shirt:7.99:2" --item "Duvet:24"
Use --customer-id to copy a saved customer instead of --name/--phone/--address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := parseItems(items)
			if err != nil {
				return err
			}
			return a.mutate(cmd, func(domain.Session) error {
				draft := domain.OrderDraft{Customer: customer.draft(), Items: drafts, Notes: notes}
				if customerID != "" {
					id, err := resolveID(customerIDs(a), customerID, "customer")
					if err != nil {
						return err
					}
					fromBook, err := a.customers.Draft(id)
					if err != nil {
						return err
					}
					fromBook.Items, fromBook.Notes = drafts, notes
					draft = fromBook
				}

				order, err := a.orders.Create(draft)
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), order)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created order %s for %s (%s)\n",
					tui.ShortID(order.ID), order.Customer.Name, tui.Money(a.cfg.Currency.Symbol, order.Total))
				return nil
			})
		},
	}

	customer.bind(cmd)
	cmd.Flags().StringVar(&customerID, "customer-id", "", "Saved customer id or id prefix")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Line item as NAME:PRICE[:QTY] (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newOrderListCmd(a *app) *cobra.Command {
	var (
		query   string
		status  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, optionally filtered by customer name and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := search.ParseStatusFilter(status)
			if err != nil {
				return err
			}
			return a.run(cmd, func() error {
				orders := a.dashboard.Search(query, filter)
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), orders)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrders(orders, a.cfg.Currency.Symbol, a.loc))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive customer name search")
	cmd.Flags().StringVarP(&status, "status", "s", string(search.All), "Status filter (all, pending, in_progress, completed)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newOrderShowCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				order, err := a.findOrder(args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), order)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrder(order, a.cfg.Currency.Symbol, a.loc))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newOrderReceiptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <id>",
		Short: "Print a plain-text receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				order, err := a.findOrder(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReceipt(order, a.cfg.ShopName, a.cfg.Currency.Symbol, a.loc))
				return nil
			})
		},
	}
}

func newOrderUpdateCmd(a *app) *cobra.Command {
	var (
		customer customerFlags
		items    []string
		notes    string
		status   string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an order's customer, items, notes or status",
		Long: `Change an order. Only the flags given are applied: --name, --phone and
--address change those fields of the order's customer copy, and passing
--item replaces the whole item list. The total is always recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.OrderPatch
			flags := cmd.Flags()
			if flags.Changed("item") {
				drafts, err := parseItems(items)
				if err != nil {
					return err
				}
				patch.Items = &drafts
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			if flags.Changed("status") {
				s, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				patch.Status = &s
			}
			if patch.Empty() && !customer.changed(cmd) {
				return fmt.Errorf("nothing to update (see --help)")
			}

			return a.mutate(cmd, func(domain.Session) error {
				id, err := resolveID(orderIDs(a), args[0], "order")
				if err != nil {
					return err
				}
				if customer.changed(cmd) {
					current, err := a.orders.Get(id)
					if err != nil {
						return err
					}
					d := customer.over(cmd, current.Customer)
					patch.Customer = &d
				}
				order, err := a.orders.Update(id, patch)
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), order)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated order %s (%s, %s)\n",
					tui.ShortID(order.ID), order.Status.Label(), tui.Money(a.cfg.Currency.Symbol, order.Total))
				return nil
			})
		},
	}

	customer.bind(cmd)
	cmd.Flags().StringArrayVar(&items, "item", nil, "Replacement line item as NAME:PRICE[:QTY] (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "Replacement notes")
	cmd.Flags().StringVar(&status, "status", "", "New status (pending, in_progress, completed)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newOrderStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of one order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return a.mutate(cmd, func(domain.Session) error {
				id, err := resolveID(orderIDs(a), args[0], "order")
				if err != nil {
					return err
				}
				order, err := a.orders.SetStatus(id, status)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", tui.ShortID(order.ID), order.Status.Label())
				return nil
			})
		},
	}
}

func newOrderBulkStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-status <status>",
		Short: "Set the status of every order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(args[0])
			if err != nil {
				return err
			}
			return a.mutate(cmd, func(domain.Session) error {
				orders, err := a.orders.BulkSetStatus(status)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %d orders to %s\n", len(orders), status.Label())
				return nil
			})
		},
	}
}

func newOrderDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an order",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(domain.Session) error {
				id, err := resolveID(orderIDs(a), args[0], "order")
				if errors.Is(err, domain.ErrNotFound) {
					// Already gone: a repeated delete is absorbed.
					fmt.Fprintf(cmd.OutOrStdout(), "Order %s not found, nothing deleted\n", args[0])
					return nil
				}
				if err != nil {
					return err
				}
				if err := a.orders.Remove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted order %s\n", tui.ShortID(id))
				return nil
			})
		},
	}
}

func (a *app) findOrder(ref string) (domain.Order, error) {
	id, err := resolveID(orderIDs(a), ref, "order")
	if err != nil {
		return domain.Order{}, err
	}
	return a.orders.Get(id)
}

func orderIDs(a *app) []string {
	orders := a.orders.List()
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func customerIDs(a *app) []string {
	customers := a.customers.List()
	ids := make([]string, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	return ids
}

// resolveID expands the short id printed in tables. An exact match always
// wins; otherwise the prefix must be unambiguous.
func resolveID(ids []string, ref, kind string) (string, error) {
	ref = strings.TrimSpace(ref)
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", domain.NewNotFoundError(kind, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, ref, len(matches))
	}
}

// parseItems reads NAME:PRICE[:QTY] arguments. The name may itself contain
// colons, so fields are taken from the right.
func parseItems(raw []string) ([]domain.LineItemDraft, error) {
	drafts := make([]domain.LineItemDraft, 0, len(raw))
	for _, r := range raw {
		d, err := parseItem(r)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func parseItem(raw string) (domain.LineItemDraft, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return domain.LineItemDraft{}, fmt.Errorf("item %q: expected NAME:PRICE[:QTY]", raw)
	}

	qty := 1
	if len(parts) >= 3 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			qty = n
			parts = parts[:len(parts)-1]
		}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return domain.LineItemDraft{}, fmt.Errorf("item %q: invalid price: %w", raw, err)
	}
	name := strings.Join(parts[:len(parts)-1], ":")
	return domain.LineItemDraft{Name: name, Price: price, Quantity: qty}, nil
}
