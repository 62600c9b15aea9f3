// Package indicator projects cart and wishlist state onto the page's badges
// and cart panel. It keeps no state of its own beyond its collaborators.
package indicator

import (
	"strconv"
	"time"

	"github.com/mesh-intelligence/storefront/internal/cart"
	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/internal/wishlist"
)

// Pulse durations.
const (
	AnimateDuration  = 500 * time.Millisecond
	AddPulseDuration = time.Second
)

// Effect is a transient visual state on a badge.
type Effect string

// Badge effects. EffectAnimate follows every count update; EffectPulse is
// the extra add-to-cart feedback on the cart button badges.
const (
	EffectAnimate Effect = "animate"
	EffectPulse   Effect = "pulse"
)

// Badge is one on-screen numeric indicator.
type Badge interface {
	SetText(text string)
	SetEffect(effect Effect, on bool)
}

// CartPanel is the cart detail panel.
type CartPanel interface {
	ShowEmpty(show bool)
	ShowFooter(show bool)
	RenderRows(rows []Row)
}

// Row is one rendered line item. Handle is the line item id; controls
// dispatch it back unchanged, so a row never addresses the wrong item after
// the ledger shifts.
type Row struct {
	Handle   string
	Name     string
	Price    string
	Image    string
	Quantity int
}

// Action is a row control.
type Action string

// Row controls.
const (
	ActionDecrement Action = "decrement"
	ActionIncrement Action = "increment"
	ActionRemove    Action = "remove"
)

// Config lists the collaborators Sync renders to. Any of them may be empty.
type Config struct {
	// CartBadges show the cart count.
	CartBadges []Badge
	// CartButtonBadges additionally pulse on add-to-cart.
	CartButtonBadges []Badge
	// WishlistBadges show the wishlist count (navbar only).
	WishlistBadges []Badge
	Panel          CartPanel
	Scheduler      *schedule.Scheduler
}

// Sync renders ledger and tracker state.
type Sync struct {
	cfg    Config
	sched  *schedule.Scheduler
	ledger *cart.Ledger
}

// New creates a Sync. A nil Scheduler uses the real clock.
func New(cfg Config) *Sync {
	sched := cfg.Scheduler
	if sched == nil {
		sched = schedule.New(nil, nil)
	}
	return &Sync{cfg: cfg, sched: sched}
}

// BadgeText is the text a badge shows for count: blank for zero and below.
func BadgeText(count int) string {
	if count <= 0 {
		return ""
	}
	return strconv.Itoa(count)
}

// AttachCart subscribes to ledger and renders its current state.
func (s *Sync) AttachCart(ledger *cart.Ledger) {
	s.ledger = ledger
	ledger.Subscribe(s.RenderCart)
	s.RenderCart(ledger.Snapshot())
}

// AttachWishlist subscribes to tracker and renders its current count.
func (s *Sync) AttachWishlist(tracker *wishlist.Tracker) {
	tracker.Subscribe(func(snap wishlist.Snapshot) {
		if snap.Change == wishlist.ChangePulse {
			return
		}
		s.RenderWishlist(snap.Count)
	})
	s.RenderWishlist(tracker.Count())
}

// RenderCart updates every cart badge and fully re-renders the panel.
func (s *Sync) RenderCart(snap cart.Snapshot) {
	s.updateBadges(s.cfg.CartBadges, snap.TotalCount)
	if snap.Change == cart.ChangeAdd {
		s.pulse(s.cfg.CartButtonBadges, EffectPulse, AddPulseDuration)
	}
	s.renderPanel(snap)
}

// RenderWishlist updates the wishlist badges.
func (s *Sync) RenderWishlist(count int) {
	s.updateBadges(s.cfg.WishlistBadges, count)
}

func (s *Sync) updateBadges(badges []Badge, count int) {
	text := BadgeText(count)
	for _, b := range badges {
		b.SetText(text)
	}
	s.pulse(badges, EffectAnimate, AnimateDuration)
}

// pulse turns effect on for each badge and schedules it off. Later updates
// start their own pulses; none is cancelled.
func (s *Sync) pulse(badges []Badge, effect Effect, d time.Duration) {
	for _, b := range badges {
		b.SetEffect(effect, true)
		badge := b
		s.sched.After(d, func() { badge.SetEffect(effect, false) })
	}
}

func (s *Sync) renderPanel(snap cart.Snapshot) {
	p := s.cfg.Panel
	if p == nil {
		return
	}
	if snap.Empty() {
		p.ShowEmpty(true)
		p.RenderRows(nil)
		p.ShowFooter(false)
		return
	}

	rows := make([]Row, len(snap.Items))
	for i, it := range snap.Items {
		rows[i] = Row{
			Handle:   it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
		}
	}
	p.ShowEmpty(false)
	p.RenderRows(rows)
	p.ShowFooter(true)
}

// Dispatch applies a row control to the attached ledger. It reports whether
// the ledger changed; unknown actions, handles, or a missing ledger do
// nothing.
func (s *Sync) Dispatch(action Action, handle string) bool {
	if s.ledger == nil {
		return false
	}
	switch action {
	case ActionDecrement:
		return s.ledger.SetQuantityID(handle, -1)
	case ActionIncrement:
		return s.ledger.SetQuantityID(handle, 1)
	case ActionRemove:
		return s.ledger.RemoveID(handle)
	default:
		return false
	}
}
