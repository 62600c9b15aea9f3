package types

import (
	"errors"
	"fmt"
)

// Product is a product card as the engine sees it. Price and Size are the
// display strings rendered on the card; Category is the class the index page
// category filter matches against.
type Product struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Price    string `json:"price" yaml:"price"`
	Size     string `json:"size" yaml:"size"`
	Image    string `json:"image" yaml:"image"`
	Category string `json:"category" yaml:"category"`
}

// Testimonial is one testimonial card.
type Testimonial struct {
	Author string `json:"author" yaml:"author"`
	Quote  string `json:"quote" yaml:"quote"`
}

// Catalog is the page content: product cards in document order and the
// testimonial cards.
type Catalog struct {
	Products     []Product     `json:"products" yaml:"products"`
	Testimonials []Testimonial `json:"testimonials" yaml:"testimonials"`
}

// Catalog errors.
var (
	ErrProductIDEmpty     = errors.New("product id must not be empty")
	ErrDuplicateProductID = errors.New("duplicate product id")
	ErrInvalidPriceRange  = errors.New("price range must be min-max")
)

// Validate checks that every product has a unique, non-empty ID.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Products))
	for i, p := range c.Products {
		if p.ID == "" {
			return fmt.Errorf("product %d: %w", i, ErrProductIDEmpty)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("product %q: %w", p.ID, ErrDuplicateProductID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Direction selects which way a carousel steps.
type Direction string

// Carousel step directions.
const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)
