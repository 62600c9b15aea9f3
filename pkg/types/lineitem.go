package types

// CartLineItem is one product entry in the cart. Identity is ID; the ledger
// keeps at most one line item per ID. Price is a display string and is never
// parsed for arithmetic.
type CartLineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// Valid reports whether the line item can live in a ledger: it needs an
// identity and a positive quantity.
func (li CartLineItem) Valid() bool {
	return li.ID != "" && li.Quantity > 0
}

// SumQuantities returns the live sum of quantities over items.
func SumQuantities(items []CartLineItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
