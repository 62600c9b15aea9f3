package tui

import (
	"github.com/mesh-intelligence/storefront/internal/indicator"
	"github.com/mesh-intelligence/storefront/internal/storefront"
)

// Badge records what the indicator sync renders to one badge.
type Badge struct {
	text    string
	effects map[indicator.Effect]bool
}

// SetText implements indicator.Badge.
func (b *Badge) SetText(text string) { b.text = text }

// SetEffect implements indicator.Badge.
func (b *Badge) SetEffect(effect indicator.Effect, on bool) {
	if b.effects == nil {
		b.effects = make(map[indicator.Effect]bool)
	}
	b.effects[effect] = on
}

// Text is the current badge text; blank means hidden.
func (b *Badge) Text() string { return b.text }

// Has reports whether effect is on.
func (b *Badge) Has(effect indicator.Effect) bool { return b.effects[effect] }

// Panel records the cart panel state.
type Panel struct {
	empty  bool
	footer bool
	rows   []indicator.Row
}

func (p *Panel) ShowEmpty(show bool)             { p.empty = show }
func (p *Panel) ShowFooter(show bool)            { p.footer = show }
func (p *Panel) RenderRows(rows []indicator.Row) { p.rows = rows }

// Rows returns the rendered line items.
func (p *Panel) Rows() []indicator.Row { return p.rows }

// CarouselView records one carousel's offset and control state.
type CarouselView struct {
	offset       int
	prevDisabled bool
	nextDisabled bool
}

func (v *CarouselView) SetOffset(position int) { v.offset = position }

func (v *CarouselView) SetControls(prevDisabled, nextDisabled bool) {
	v.prevDisabled = prevDisabled
	v.nextDisabled = nextDisabled
}

// Offset is the last rendered offset.
func (v *CarouselView) Offset() int { return v.offset }

// Views are the terminal renderings of every page component.
type Views struct {
	CartBadge       *Badge
	CartButtonBadge *Badge
	WishlistBadge   *Badge
	Panel           *Panel
	Products        *CarouselView
	Testimonials    *CarouselView
}

// NewViews creates empty views.
func NewViews() *Views {
	return &Views{
		CartBadge:       &Badge{},
		CartButtonBadge: &Badge{},
		WishlistBadge:   &Badge{},
		Panel:           &Panel{},
		Products:        &CarouselView{},
		Testimonials:    &CarouselView{},
	}
}

// Deps returns page dependencies rendering to v. The caller fills in the
// store, scheduler, and catalog.
func (v *Views) Deps() storefront.Deps {
	return storefront.Deps{
		Indicators: indicator.Config{
			CartBadges:       []indicator.Badge{v.CartBadge, v.CartButtonBadge},
			CartButtonBadges: []indicator.Badge{v.CartButtonBadge},
			WishlistBadges:   []indicator.Badge{v.WishlistBadge},
			Panel:            v.Panel,
		},
		ProductView:     v.Products,
		TestimonialView: v.Testimonials,
	}
}
