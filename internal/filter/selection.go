package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Radio values of the order and sort groups.
const (
	OrderNone  = "none"
	OrderPrice = "product-price"
	// OrderPriceShort is accepted as an alias of OrderPrice.
	OrderPriceShort = "price"

	SortAscending  = "a-z"
	SortDescending = "z-a"
)

// Selection is the checked state of the product page filter inputs. A zero
// field means no input in that group is checked.
type Selection struct {
	Sizes   []string `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Price   string   `json:"price,omitempty" yaml:"price,omitempty"`
	OrderBy string   `json:"order,omitempty" yaml:"order,omitempty"`
	SortBy  string   `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// DefaultSelection is the state the reset control restores.
func DefaultSelection() Selection {
	return Selection{OrderBy: OrderNone, SortBy: SortAscending}
}

// Active reports whether any input is checked.
func (s Selection) Active() bool {
	return len(s.Sizes) > 0 || s.Price != "" || s.OrderBy != "" || s.SortBy != ""
}

// Sorted reports whether applying s reorders the products.
func (s Selection) Sorted() bool {
	return s.OrderBy != "" || s.SortBy != ""
}

func (s Selection) byPrice() bool {
	return s.OrderBy == OrderPrice || s.OrderBy == OrderPriceShort
}

func (s Selection) ascending() bool {
	return s.SortBy == SortAscending
}

// Validate checks the price range format. Other groups accept any value.
func (s Selection) Validate() error {
	if s.Price == "" {
		return nil
	}
	_, _, err := ParsePriceRange(s.Price)
	return err
}

var nonPrice = regexp.MustCompile(`[^\d.]`)

// ParsePrice reads a display price such as "$1,299.90" by dropping every
// character other than digits and '.'. Text that still does not parse is 0.
func ParsePrice(text string) float64 {
	v, err := strconv.ParseFloat(nonPrice.ReplaceAllString(text, ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParsePriceRange parses an inclusive "min-max" range.
func ParsePriceRange(s string) (lo, hi float64, err error) {
	minText, maxText, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", s, types.ErrInvalidPriceRange)
	}
	if lo, err = strconv.ParseFloat(strings.TrimSpace(minText), 64); err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, types.ErrInvalidPriceRange)
	}
	if hi, err = strconv.ParseFloat(strings.TrimSpace(maxText), 64); err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, types.ErrInvalidPriceRange)
	}
	return lo, hi, nil
}

// matches applies the size and price groups to p. Groups are ANDed; sizes
// within a group are ORed.
func (s Selection) matches(p types.Product) bool {
	if len(s.Sizes) > 0 {
		size := strings.ToLower(p.Size)
		found := false
		for _, token := range s.Sizes {
			if strings.Contains(size, strings.ToLower(token)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.Price != "" {
		lo, hi, err := ParsePriceRange(s.Price)
		if err != nil {
			return false
		}
		price := ParsePrice(p.Price)
		if price < lo || price > hi {
			return false
		}
	}
	return true
}
