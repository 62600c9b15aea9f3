package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/filter"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

type filterView struct {
	VisibleCount int             `json:"visible_count"`
	Products     []types.Product `json:"products"`
}

func newFilterCmd(a *app) *cobra.Command {
	var (
		sel      filter.Selection
		category string
		reset    bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the catalog products a filter selection shows, in order",
		Long: "Apply the product page filters (size, price, order, sort) or an index page\n" +
			"category button to the catalog and print the visible products.",
		Example: "  storefront filter --size m --size l --price 0-50\n" +
			"  storefront filter --order product-price --sort z-a\n" +
			"  storefront filter --category sale",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(a.cfg.Catalog)
			if err != nil {
				return userError("%w", err)
			}
			if err := sel.Validate(); err != nil {
				return userError("--price: %w", err)
			}

			e := filter.New(catalog.Products, filter.WithLogger(a.logger.Named("filter")))
			var res filter.Result
			switch {
			case category != "":
				res = e.ApplyCategory(category)
			case reset:
				res = e.Reset()
			default:
				res = e.Apply(sel)
			}

			visible := res.Visible()
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), filterView{VisibleCount: res.VisibleCount, Products: visible})
			}
			w := cmd.OutOrStdout()
			if len(visible) == 0 {
				fmt.Fprintln(w, "No products match")
				return nil
			}
			for _, p := range visible {
				fmt.Fprintf(w, "%-24s %10s  %-14s %s\n", p.Name, p.Price, p.Size, p.ID)
			}
			fmt.Fprintf(w, "Showing %d of %d\n", res.VisibleCount, len(res.Items))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&sel.Sizes, "size", nil, "size token to match (repeatable, ORed)")
	f.StringVar(&sel.Price, "price", "", "inclusive price range min-max")
	f.StringVar(&sel.OrderBy, "order", "", "order radio: none or "+filter.OrderPrice)
	f.StringVar(&sel.SortBy, "sort", "", "sort radio: "+filter.SortAscending+" or "+filter.SortDescending)
	f.StringVar(&category, "category", "", "index page category button instead of the product filters ("+filter.CategoryAll+" shows everything)")
	f.BoolVar(&reset, "reset", false, "apply the reset selection")
	cmd.MarkFlagsMutuallyExclusive("category", "reset")
	for _, name := range []string{"size", "price", "order", "sort"} {
		cmd.MarkFlagsMutuallyExclusive("category", name)
	}
	return cmd
}
