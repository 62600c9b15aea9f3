// Package tui is the interactive terminal storefront: both carousels with
// live auto-advance, the cart panel, and the cart and wishlist badges.
//
// Page timers fire on their own goroutines and post into a schedule.Loop;
// the model drains that loop from bubbletea commands, so every engine call
// runs inside Update.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/storefront/internal/carousel"
	"github.com/mesh-intelligence/storefront/internal/filter"
	"github.com/mesh-intelligence/storefront/internal/indicator"
	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/internal/storefront"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// callbackMsg carries a timer callback onto the bubbletea goroutine.
type callbackMsg func()

// Option configures a Model.
type Option func(*Model)

// WithLoop makes the model run the callbacks queued on loop.
func WithLoop(loop *schedule.Loop) Option {
	return func(m *Model) { m.loop = loop }
}

// WithStyles overrides DefaultStyles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// Model is the bubbletea model of the browse screen.
type Model struct {
	page   *storefront.Page
	views  *Views
	loop   *schedule.Loop
	styles Styles
	ctx    context.Context
	cancel context.CancelFunc

	categories []string
	category   int
	slot       int
	cartRow    int
	hovering   bool
	width      int
}

// New creates the model over an opened page rendering to views.
func New(page *storefront.Page, views *Views, opts ...Option) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		page:       page,
		views:      views,
		styles:     DefaultStyles(),
		ctx:        ctx,
		cancel:     cancel,
		categories: append([]string{filter.CategoryAll}, page.Filter.Categories()...),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init starts draining the callback loop.
func (m *Model) Init() tea.Cmd {
	return m.waitCallback()
}

func (m *Model) waitCallback() tea.Cmd {
	if m.loop == nil {
		return nil
	}
	loop, ctx := m.loop, m.ctx
	return func() tea.Msg {
		fn, ok := loop.Wait(ctx)
		if !ok {
			return nil
		}
		return callbackMsg(fn)
	}
}

// Update handles timer callbacks, resizes, and keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callbackMsg:
		msg()
		return m, m.waitCallback()
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) resize(width int) {
	m.width = width
	if m.page.Products != nil {
		m.page.Products.Resize(cardWidth(width, carousel.Product))
	}
	if m.page.Testimonials != nil {
		m.page.Testimonials.Resize(cardWidth(width, carousel.Testimonial))
	}
}

// cardWidth is the cell width of one card when a page of preset fills
// width. Zero leaves the preset default step.
func cardWidth(width int, preset carousel.Preset) int {
	if width <= 0 || preset.PageSize <= 0 {
		return 0
	}
	return max(width/preset.PageSize, 1)
}

func (m *Model) handleKey(key string) tea.Cmd {
	products, testimonials := m.page.Products, m.page.Testimonials
	switch key {
	case "q", "ctrl+c", "esc":
		m.Close()
		return tea.Quit
	case "left":
		if products != nil {
			products.Prev()
		}
	case "right":
		if products != nil {
			products.Next()
		}
	case "[":
		if testimonials != nil {
			testimonials.Prev()
		}
	case "]":
		if testimonials != nil {
			testimonials.Next()
		}
	case "1", "2", "3", "4":
		m.slot = int(key[0]-'1') % carousel.Product.PageSize
	case "a":
		if p, ok := m.selectedProduct(); ok {
			m.page.AddToCart(p.ID)
		}
	case "w":
		if p, ok := m.selectedProduct(); ok {
			m.page.ToggleWishlist(p.ID)
		}
	case "c":
		m.category = (m.category + 1) % len(m.categories)
		m.page.Filter.ApplyCategory(m.categories[m.category])
	case "h":
		m.toggleHover()
	case "up", "k":
		m.cartRow--
	case "down", "j":
		m.cartRow++
	case "+", "=":
		m.dispatch(indicator.ActionIncrement)
	case "-":
		m.dispatch(indicator.ActionDecrement)
	case "x", "delete":
		m.dispatch(indicator.ActionRemove)
	case "C":
		m.page.Ledger.Clear()
	}
	m.clampCartRow()
	return nil
}

func (m *Model) toggleHover() {
	if m.page.Products == nil {
		return
	}
	m.hovering = !m.hovering
	if m.hovering {
		m.page.Products.PointerEnter()
	} else {
		m.page.Products.PointerLeave()
	}
}

func (m *Model) dispatch(action indicator.Action) {
	rows := m.views.Panel.Rows()
	if m.cartRow < 0 || m.cartRow >= len(rows) {
		return
	}
	m.page.Indicators.Dispatch(action, rows[m.cartRow].Handle)
}

func (m *Model) clampCartRow() {
	n := len(m.views.Panel.Rows())
	m.cartRow = min(m.cartRow, n-1)
	m.cartRow = max(m.cartRow, 0)
}

// visibleProducts returns the products the carousel currently shows.
func (m *Model) visibleProducts() []types.Product {
	all := m.page.Filter.Result().Visible()
	if m.page.Products == nil {
		return all
	}
	start := min(m.page.Products.Index(), len(all))
	end := min(start+carousel.Product.PageSize, len(all))
	return all[start:end]
}

func (m *Model) selectedProduct() (types.Product, bool) {
	shown := m.visibleProducts()
	if m.slot >= len(shown) {
		return types.Product{}, false
	}
	return shown[m.slot], true
}

// Close stops the callback drain and the page timers.
func (m *Model) Close() {
	m.cancel()
	m.page.Close()
}

// View renders the screen.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.productSection())
	b.WriteString(m.testimonialSection())
	b.WriteString(m.cartSection())
	b.WriteString(m.styles.Help.Render(
		"←/→ products  1-4 select  a add  w like  c category  h hover  [/] testimonials\n" +
			"↑/↓ cart row  +/- quantity  x remove  C clear  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) badge(label string, b *Badge) string {
	text := b.Text()
	if text == "" {
		text = " "
	}
	style := m.styles.Badge
	switch {
	case b.Has(indicator.EffectPulse):
		style = m.styles.BadgePulse
	case b.Has(indicator.EffectAnimate):
		style = m.styles.BadgeAnimate
	}
	return label + " " + style.Render("["+text+"]")
}

func (m *Model) header() string {
	parts := []string{
		m.styles.Title.Render("STOREFRONT"),
		m.badge("cart", m.views.CartBadge),
		m.badge("♥", m.views.WishlistBadge),
		m.styles.Muted.Render("category: " + m.categories[m.category]),
	}
	if p := m.page.Products; p != nil {
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("%s %dpx", p.State(), m.views.Products.Offset())))
	}
	return strings.Join(parts, "   ")
}

func (m *Model) control(symbol string, disabled, hidden bool) string {
	switch {
	case disabled && hidden:
		return " "
	case disabled:
		return m.styles.Disabled.Render(symbol)
	default:
		return m.styles.Control.Render(symbol)
	}
}

func (m *Model) productSection() string {
	if m.page.Products == nil {
		return ""
	}
	liked := make(map[string]bool)
	for _, id := range m.page.Wishlist.ActiveIDs() {
		liked[id] = true
	}

	shown := m.visibleProducts()
	cards := make([]string, 0, len(shown)+2)
	v := m.views.Products
	cards = append(cards, m.control("◀", v.prevDisabled, false))
	for i, p := range shown {
		heart := "♡"
		if liked[p.ID] {
			heart = "♥"
		}
		style := m.styles.Card
		if i == m.slot {
			style = m.styles.CardSelected
		}
		cards = append(cards, style.Render(fmt.Sprintf("%d %s %s\n%s\nsize %s", i+1, heart, p.Name, p.Price, p.Size)))
	}
	if len(shown) == 0 {
		cards = append(cards, m.styles.Muted.Render("no products in this category"))
	}
	cards = append(cards, m.control("▶", v.nextDisabled, false))

	return m.styles.Section.Render("Products") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Center, cards...) + "\n"
}

func (m *Model) testimonialSection() string {
	t := m.page.Testimonials
	if t == nil {
		return ""
	}
	all := m.page.Catalog().Testimonials
	size := carousel.Testimonial.PageSize
	start := min(t.Index()*size, len(all))
	end := min(start+size, len(all))

	v := m.views.Testimonials
	cards := []string{m.control("◀", v.prevDisabled, true)}
	for _, tm := range all[start:end] {
		cards = append(cards, m.styles.Card.Render(fmt.Sprintf("“%s”\n- %s", tm.Quote, tm.Author)))
	}
	cards = append(cards, m.control("▶", v.nextDisabled, true))

	return m.styles.Section.Render("Testimonials") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Center, cards...) + "\n"
}

func (m *Model) cartSection() string {
	var b strings.Builder
	b.WriteString(m.styles.Section.Render("Cart"))
	b.WriteString("\n")

	panel := m.views.Panel
	if panel.empty {
		b.WriteString(m.styles.Muted.Render("Your cart is empty"))
		b.WriteString("\n")
		return b.String()
	}
	for i, r := range panel.Rows() {
		cursor := "  "
		if i == m.cartRow {
			cursor = m.styles.Cursor.Render("> ")
		}
		fmt.Fprintf(&b, "%s%-24s %10s  x%d\n", cursor, r.Name, r.Price, r.Quantity)
	}
	if panel.footer {
		fmt.Fprintf(&b, "%s\n", m.badge("items", m.views.CartButtonBadge))
	}
	return b.String()
}
