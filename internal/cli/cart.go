package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/storefront"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// cartView is the JSON shape of the cart.
type cartView struct {
	Items      []types.CartLineItem `json:"items"`
	TotalCount int                  `json:"total_count"`
}

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the persisted cart",
		Long:  "Cart commands address line items by their 1-based row in 'cart show' or by product id with --id.",
	}
	cmd.AddCommand(
		newCartAddCmd(a),
		newCartRemoveCmd(a),
		newCartQtyCmd(a),
		newCartClearCmd(a),
		newCartShowCmd(a),
	)
	return cmd
}

// withCart opens a session, runs fn, prints the resulting cart, and closes.
func (a *app) withCart(cmd *cobra.Command, fn func(p *storefront.Page) error) error {
	s, err := a.openSession(storefront.Deps{})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s.page); err != nil {
		return err
	}
	return a.printCart(cmd.OutOrStdout(), s.page)
}

func (a *app) printCart(w io.Writer, p *storefront.Page) error {
	items := p.Ledger.Items()
	if a.flags.jsonMode {
		return printJSON(w, cartView{Items: items, TotalCount: p.Ledger.TotalCount()})
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return nil
	}
	for i, it := range items {
		fmt.Fprintf(w, "%2d. %-24s %10s  x%d  (%s)\n", i+1, it.Name, it.Price, it.Quantity, it.ID)
	}
	fmt.Fprintf(w, "Items: %d\n", p.Ledger.TotalCount())
	return nil
}

func newCartAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a catalog product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCart(cmd, func(p *storefront.Page) error {
				if !p.AddToCart(args[0]) {
					return userError("product %q is not in the catalog", args[0])
				}
				return nil
			})
		},
	}
}

// rowTarget resolves a row argument or --id flag to a line item id.
func rowTarget(p *storefront.Page, id string, args []string) (string, error) {
	if id != "" {
		if p.Ledger.IndexOf(id) < 0 {
			return "", userError("no line item with id %q", id)
		}
		return id, nil
	}
	if len(args) == 0 {
		return "", userError("give a row number or --id")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return "", userError("row %q is not a number", args[0])
	}
	items := p.Ledger.Items()
	if row < 1 || row > len(items) {
		return "", userError("row %d is out of range (cart has %d rows)", row, len(items))
	}
	return items[row-1].ID, nil
}

func newCartRemoveCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "remove [row]",
		Short: "Remove a line item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCart(cmd, func(p *storefront.Page) error {
				target, err := rowTarget(p, id, args)
				if err != nil {
					return err
				}
				p.Ledger.RemoveID(target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "line item id instead of a row number")
	return cmd
}

func newCartQtyCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:     "qty [row] <delta>",
		Short:   "Change a line item quantity by delta; zero or less removes it",
		Example: "  storefront cart qty 1 2\n  storefront cart qty --id classic-tee -- -1",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[len(args)-1])
			if err != nil {
				return userError("delta %q is not a number", args[len(args)-1])
			}
			return a.withCart(cmd, func(p *storefront.Page) error {
				target, err := rowTarget(p, id, args[:len(args)-1])
				if err != nil {
					return err
				}
				p.Ledger.SetQuantityID(target, delta)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "line item id instead of a row number")
	return cmd
}

func newCartClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCart(cmd, func(p *storefront.Page) error {
				p.Ledger.Clear()
				return nil
			})
		},
	}
}

func newCartShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCart(cmd, func(*storefront.Page) error { return nil })
		},
	}
}
