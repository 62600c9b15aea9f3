package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/storefront"
)

type wishlistView struct {
	Count    int      `json:"count"`
	Products []string `json:"products"`
}

func newWishlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show and change the persisted wishlist",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle <product-id>",
			Short: "Like or unlike a catalog product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withWishlist(cmd, func(p *storefront.Page) error {
					if !p.ToggleWishlist(args[0]) {
						return userError("product %q is not in the catalog", args[0])
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the liked products",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withWishlist(cmd, func(*storefront.Page) error { return nil })
			},
		},
	)
	return cmd
}

func (a *app) withWishlist(cmd *cobra.Command, fn func(p *storefront.Page) error) error {
	s, err := a.openSession(storefront.Deps{})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s.page); err != nil {
		return err
	}
	return a.printWishlist(cmd.OutOrStdout(), s.page)
}

func (a *app) printWishlist(w io.Writer, p *storefront.Page) error {
	ids := p.Wishlist.ActiveIDs()
	if a.flags.jsonMode {
		return printJSON(w, wishlistView{Count: p.Wishlist.Count(), Products: ids})
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "Your wishlist is empty")
		return nil
	}
	for _, id := range ids {
		name := id
		if prod, ok := p.Product(id); ok {
			name = prod.Name
		}
		fmt.Fprintf(w, "  ♥ %-24s (%s)\n", name, id)
	}
	fmt.Fprintf(w, "Liked: %d\n", p.Wishlist.Count())
	return nil
}
