// Package wishlist tracks which wishlist buttons on the page are active and
// persists both how many and which products are liked.
package wishlist

import (
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// PulseDuration is how long a toggled button shows its pulse.
const PulseDuration = 300 * time.Millisecond

// Button is one wishlist button in document order.
type Button struct {
	ProductID string
	Active    bool
	Pulsing   bool
}

// OutlineVisible reports whether the outline heart icon is shown.
func (b Button) OutlineVisible() bool { return !b.Active }

// FilledVisible reports whether the filled heart icon is shown.
func (b Button) FilledVisible() bool { return b.Active }

// Change names what produced a Snapshot.
type Change string

// Tracker changes. Only ChangeToggle and ChangeRestore move the count.
const (
	ChangeToggle  Change = "toggle"
	ChangeRestore Change = "restore"
	ChangePulse   Change = "pulse"
)

// Snapshot is the tracker state handed to observers.
type Snapshot struct {
	Count   int
	Buttons []Button
	Change  Change
	// Handle is the toggled or pulsing button; -1 for restore.
	Handle int
}

// Observer receives tracker changes.
type Observer func(Snapshot)

// Tracker owns the wishlist buttons. Like the cart ledger it expects every
// call on the event thread.
type Tracker struct {
	store     types.Store
	logger    *zap.Logger
	sched     *schedule.Scheduler
	buttons   []Button
	count     int
	storedIDs []string
	hasIDs    bool
	observers []Observer
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) { t.logger = logging.OrNop(logger) }
}

// WithScheduler sets the scheduler that clears button pulses.
func WithScheduler(s *schedule.Scheduler) Option {
	return func(t *Tracker) { t.sched = s }
}

// New creates a tracker with no buttons.
func New(store types.Store, opts ...Option) *Tracker {
	t := &Tracker{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	if t.sched == nil {
		t.sched = schedule.New(nil, nil)
	}
	return t
}

// Load reads wishlistCount and wishlistItems. Missing or malformed values
// mean zero and no identities.
func (t *Tracker) Load() {
	t.count = 0
	t.storedIDs = nil
	t.hasIDs = false
	if t.store == nil {
		return
	}

	if raw, ok, err := t.store.Get(types.KeyWishlistCount); err != nil {
		t.logger.Warn("load wishlist count", zap.Error(err))
	} else if ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			t.count = n
		}
	}

	raw, ok, err := t.store.Get(types.KeyWishlistItems)
	if err != nil || !ok {
		return
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		t.logger.Warn("discarding malformed wishlist items", zap.Error(err))
		return
	}
	t.storedIDs = ids
	t.hasIDs = true
}

// Register adds a button for productID after the existing ones and returns
// its handle.
func (t *Tracker) Register(productID string) int {
	t.buttons = append(t.buttons, Button{ProductID: productID})
	return len(t.buttons) - 1
}

// Subscribe registers fn for every change.
func (t *Tracker) Subscribe(fn Observer) {
	t.observers = append(t.observers, fn)
}

// Count returns the number of liked products. Before Restore it is the
// persisted count.
func (t *Tracker) Count() int {
	return t.count
}

// Buttons returns a copy of the button states in document order.
func (t *Tracker) Buttons() []Button {
	out := make([]Button, len(t.buttons))
	copy(out, t.buttons)
	return out
}

// ActiveIDs returns the product ids of active buttons, in document order,
// without repeats.
func (t *Tracker) ActiveIDs() []string {
	ids := []string{}
	seen := make(map[string]bool)
	for _, b := range t.buttons {
		if b.Active && !seen[b.ProductID] {
			seen[b.ProductID] = true
			ids = append(ids, b.ProductID)
		}
	}
	return ids
}

// Restore marks the liked buttons active. When product identities were
// persisted they decide; otherwise the first Count buttons in document order
// are marked. The count then equals the number of active buttons; a
// persisted count that disagrees with it is rewritten.
func (t *Tracker) Restore() {
	liked := make(map[string]bool, len(t.storedIDs))
	for _, id := range t.storedIDs {
		liked[id] = true
	}

	for i := range t.buttons {
		if t.hasIDs {
			t.buttons[i].Active = liked[t.buttons[i].ProductID]
		} else {
			t.buttons[i].Active = i < t.count
		}
	}
	loaded := t.count
	t.count = t.activeCount()
	if t.count != loaded {
		t.persistCount()
	}
	t.notify(ChangeRestore, -1)
}

// Toggle flips the button at handle, persists, and pulses the button.
// Unknown handles are ignored.
func (t *Tracker) Toggle(handle int) bool {
	if handle < 0 || handle >= len(t.buttons) {
		return false
	}
	t.buttons[handle].Active = !t.buttons[handle].Active
	t.count = t.activeCount()
	t.persist()

	t.buttons[handle].Pulsing = true
	t.notify(ChangeToggle, handle)
	t.sched.After(PulseDuration, func() {
		if handle < len(t.buttons) {
			t.buttons[handle].Pulsing = false
			t.notify(ChangePulse, handle)
		}
	})
	return true
}

// ToggleProduct toggles the first button registered for productID.
func (t *Tracker) ToggleProduct(productID string) bool {
	for i, b := range t.buttons {
		if b.ProductID == productID {
			return t.Toggle(i)
		}
	}
	return false
}

func (t *Tracker) activeCount() int {
	n := 0
	for _, b := range t.buttons {
		if b.Active {
			n++
		}
	}
	return n
}

func (t *Tracker) persist() {
	if t.store == nil {
		return
	}
	t.persistCount()
	data, err := json.Marshal(t.ActiveIDs())
	if err != nil {
		t.logger.Error("marshal wishlist items", zap.Error(err))
		return
	}
	if err := t.store.Set(types.KeyWishlistItems, string(data)); err != nil {
		t.logger.Error("persist wishlist items", zap.Error(err))
	}
	t.storedIDs = t.ActiveIDs()
	t.hasIDs = true
}

func (t *Tracker) persistCount() {
	if t.store == nil {
		return
	}
	if err := t.store.Set(types.KeyWishlistCount, strconv.Itoa(t.count)); err != nil {
		t.logger.Error("persist wishlist count", zap.Error(err))
	}
}

func (t *Tracker) notify(change Change, handle int) {
	snap := Snapshot{Count: t.count, Buttons: t.Buttons(), Change: change, Handle: handle}
	for _, fn := range t.observers {
		fn(snap)
	}
}
