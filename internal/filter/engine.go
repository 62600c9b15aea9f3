// Package filter computes which product cards are visible and in what order
// for the product page filter inputs and the index page category buttons.
package filter

import (
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// CategoryAll is the category button that shows every product.
const CategoryAll = "all"

// Item is one product card and whether it is shown.
type Item struct {
	Product types.Product
	Visible bool
}

// Result is the card order after an apply.
type Result struct {
	Items        []Item
	VisibleCount int
}

// Visible returns the shown products in order.
func (r Result) Visible() []types.Product {
	out := make([]types.Product, 0, r.VisibleCount)
	for _, it := range r.Items {
		if it.Visible {
			out = append(out, it.Product)
		}
	}
	return out
}

// Observer is told the visible count after every Apply or Reset.
type Observer func(visible int)

// CategoryObserver is told the visible count after every ApplyCategory and
// whether the "all" button is the active one.
type CategoryObserver func(visible int, all bool)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(logger) }
}

// WithLanguage sets the collation used for name sorting. The default is
// English.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) { e.collator = collate.New(tag) }
}

// Engine holds the product cards in their current order. Sorting reorders
// them in place, so a later apply starts from the previous order. Not safe
// for concurrent use.
type Engine struct {
	items     []Item
	selection Selection
	category  string
	collator  *collate.Collator
	logger    *zap.Logger

	observers         []Observer
	categoryObservers []CategoryObserver
}

// New creates an engine over products in document order, all visible.
func New(products []types.Product, opts ...Option) *Engine {
	e := &Engine{
		items:    make([]Item, len(products)),
		category: CategoryAll,
		collator: collate.New(language.English),
		logger:   zap.NewNop(),
	}
	for i, p := range products {
		e.items[i] = Item{Product: p, Visible: true}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers fn for visible count changes from Apply and Reset.
func (e *Engine) Subscribe(fn Observer) {
	e.observers = append(e.observers, fn)
}

// SubscribeCategory registers fn for ApplyCategory.
func (e *Engine) SubscribeCategory(fn CategoryObserver) {
	e.categoryObservers = append(e.categoryObservers, fn)
}

// Apply shows the products matching sel and sorts when an order or sort
// input is checked.
func (e *Engine) Apply(sel Selection) Result {
	e.selection = sel
	for i := range e.items {
		e.items[i].Visible = sel.matches(e.items[i].Product)
	}
	if sel.Sorted() {
		e.sort(sel)
	}

	res := e.Result()
	e.logger.Debug("filters applied",
		zap.Strings("sizes", sel.Sizes),
		zap.String("price", sel.Price),
		zap.String("order", sel.OrderBy),
		zap.String("sort", sel.SortBy),
		zap.Int("visible", res.VisibleCount))
	for _, fn := range e.observers {
		fn(res.VisibleCount)
	}
	return res
}

// Reset unchecks every size and price input, selects the default order and
// sort radios, and applies.
func (e *Engine) Reset() Result {
	return e.Apply(DefaultSelection())
}

// ApplyCategory shows products whose category classes include cat, or every
// product for CategoryAll.
func (e *Engine) ApplyCategory(cat string) Result {
	e.category = cat
	all := cat == CategoryAll
	for i := range e.items {
		e.items[i].Visible = all || hasClass(e.items[i].Product.Category, cat)
	}

	res := e.Result()
	for _, fn := range e.categoryObservers {
		fn(res.VisibleCount, all)
	}
	return res
}

// Selection returns the last applied selection.
func (e *Engine) Selection() Selection {
	return e.selection
}

// Category returns the active category button.
func (e *Engine) Category() string {
	return e.category
}

// Result returns the current order and visibility.
func (e *Engine) Result() Result {
	res := Result{Items: slices.Clone(e.items)}
	for _, it := range e.items {
		if it.Visible {
			res.VisibleCount++
		}
	}
	return res
}

// Categories lists the distinct category classes in first-seen order.
func (e *Engine) Categories() []string {
	var out []string
	for _, it := range e.items {
		for _, c := range strings.Fields(it.Product.Category) {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *Engine) sort(sel Selection) {
	asc := sel.ascending()
	if sel.byPrice() {
		slices.SortStableFunc(e.items, func(a, b Item) int {
			pa, pb := ParsePrice(a.Product.Price), ParsePrice(b.Product.Price)
			if !asc {
				pa, pb = pb, pa
			}
			switch {
			case pa < pb:
				return -1
			case pa > pb:
				return 1
			default:
				return 0
			}
		})
		return
	}

	slices.SortStableFunc(e.items, func(a, b Item) int {
		na, nb := strings.ToLower(a.Product.Name), strings.ToLower(b.Product.Name)
		if !asc {
			na, nb = nb, na
		}
		return e.collator.CompareString(na, nb)
	})
}

func hasClass(classes, cat string) bool {
	return slices.Contains(strings.Fields(classes), cat)
}
