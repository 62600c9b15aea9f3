// Package storefront is the composition root for one page: it loads the
// persisted state once, wires the cart and wishlist to the indicators, and
// connects the filter engine to the carousels present on the page.
package storefront

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/internal/cart"
	"github.com/mesh-intelligence/storefront/internal/carousel"
	"github.com/mesh-intelligence/storefront/internal/filter"
	"github.com/mesh-intelligence/storefront/internal/indicator"
	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/internal/wishlist"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Deps lists what a page has. Only Store is required; every missing view
// skips its component.
type Deps struct {
	Store     types.Store
	Logger    *zap.Logger
	Scheduler *schedule.Scheduler
	Catalog   types.Catalog

	// Indicators are the badges and cart panel. Its Scheduler is ignored.
	Indicators indicator.Config

	ProductView     carousel.View
	TestimonialView carousel.View

	// Selection is the filter state checked when the page loads. It is
	// applied only when some input is checked.
	Selection filter.Selection

	// Measured card widths in pixels; zero uses each carousel's default
	// step.
	ProductWidth     int
	TestimonialWidth int
}

// Page is one loaded page. Products and Testimonials are nil when the page
// has no such carousel.
type Page struct {
	Ledger       *cart.Ledger
	Wishlist     *wishlist.Tracker
	Indicators   *indicator.Sync
	Filter       *filter.Engine
	Products     *carousel.Engine
	Testimonials *carousel.Engine

	catalog types.Catalog
	handles map[string]int
	logger  *zap.Logger
}

// Open builds the page. The store is read once here; afterwards it is only
// written.
func Open(deps Deps) (*Page, error) {
	if deps.Store == nil {
		return nil, types.ErrStoreRequired
	}
	if err := deps.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	logger := logging.OrNop(deps.Logger)
	sched := deps.Scheduler
	if sched == nil {
		sched = schedule.New(nil, nil)
	}

	p := &Page{
		catalog: deps.Catalog,
		handles: make(map[string]int, len(deps.Catalog.Products)),
		logger:  logger,
	}

	p.Ledger = cart.New(deps.Store, cart.WithLogger(logger.Named("cart")))
	p.Ledger.Load()

	p.Wishlist = wishlist.New(deps.Store,
		wishlist.WithLogger(logger.Named("wishlist")),
		wishlist.WithScheduler(sched))
	p.Wishlist.Load()
	for _, prod := range deps.Catalog.Products {
		p.handles[prod.ID] = p.Wishlist.Register(prod.ID)
	}

	icfg := deps.Indicators
	icfg.Scheduler = sched
	p.Indicators = indicator.New(icfg)
	p.Indicators.AttachCart(p.Ledger)
	p.Indicators.AttachWishlist(p.Wishlist)
	p.Wishlist.Restore()

	p.Filter = filter.New(deps.Catalog.Products, filter.WithLogger(logger.Named("filter")))

	if deps.ProductView != nil {
		p.Products = carousel.New(carousel.Product, deps.ProductView, sched,
			carousel.WithLogger(logger.Named("carousel")),
			carousel.WithItemWidth(deps.ProductWidth))
		p.Filter.Subscribe(p.Products.SetVisibleCount)
		p.Filter.SubscribeCategory(p.Products.Filter)
		p.Filter.ApplyCategory(filter.CategoryAll)
	}

	if deps.TestimonialView != nil {
		p.Testimonials = carousel.New(carousel.Testimonial, deps.TestimonialView, sched,
			carousel.WithLogger(logger.Named("carousel")),
			carousel.WithItemWidth(deps.TestimonialWidth))
		p.Testimonials.Init(len(deps.Catalog.Testimonials), true)
	}

	if deps.Selection.Active() {
		p.Filter.Apply(deps.Selection)
	}

	logger.Debug("page opened",
		zap.Int("products", len(deps.Catalog.Products)),
		zap.Int("cart_items", p.Ledger.Len()),
		zap.Int("wishlist", p.Wishlist.Count()))
	return p, nil
}

// Catalog returns the page content.
func (p *Page) Catalog() types.Catalog {
	return p.catalog
}

// Product looks up a catalog product by id.
func (p *Page) Product(id string) (types.Product, bool) {
	for _, prod := range p.catalog.Products {
		if prod.ID == id {
			return prod, true
		}
	}
	return types.Product{}, false
}

// AddToCart adds the catalog product id to the cart. Unknown ids are
// ignored.
func (p *Page) AddToCart(id string) bool {
	prod, ok := p.Product(id)
	if !ok {
		return false
	}
	p.Ledger.Add(prod.ID, prod.Name, prod.Price, prod.Image)
	return true
}

// ToggleWishlist toggles the wishlist button of product id.
func (p *Page) ToggleWishlist(id string) bool {
	h, ok := p.handles[id]
	if !ok {
		return false
	}
	return p.Wishlist.Toggle(h)
}

// Close stops every carousel timer. The store belongs to the caller.
func (p *Page) Close() {
	if p.Products != nil {
		p.Products.Stop()
	}
	if p.Testimonials != nil {
		p.Testimonials.Stop()
	}
}
