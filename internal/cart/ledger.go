// Package cart implements the cart ledger: the ordered list of line items,
// its derived total count, and the write-through to the Store.
package cart

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Change names the mutation that produced a Snapshot.
type Change string

// Ledger mutations.
const (
	ChangeAdd      Change = "add"
	ChangeRemove   Change = "remove"
	ChangeQuantity Change = "quantity"
	ChangeClear    Change = "clear"
)

// Snapshot is the ledger state handed to observers after a mutation.
// Items is a copy; observers may keep it.
type Snapshot struct {
	Items      []types.CartLineItem
	TotalCount int
	Change     Change
	// ID is the line item the change applied to; empty for ChangeClear.
	ID string
}

// Empty reports whether the snapshot has no line items.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// Observer receives every effective mutation.
type Observer func(Snapshot)

// Ledger owns the cart line items. It is not safe for concurrent use: all
// calls are expected on the page's single event thread.
type Ledger struct {
	store     types.Store
	logger    *zap.Logger
	newID     func() string
	items     []types.CartLineItem
	total     int
	observers map[int]Observer
	nextObs   int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logging.OrNop(logger) }
}

// WithIDGenerator overrides the fallback id source used when Add is called
// without a product id.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// New creates an empty ledger writing through to store. Call Load to restore
// persisted items.
func New(store types.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		logger:    zap.NewNop(),
		newID:     generateID,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// generateID returns a UUID v7, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Load replaces the ledger contents with the persisted cartItems. Absent or
// malformed data yields an empty ledger. Entries without an id or with a
// non-positive quantity are dropped and repeated ids are merged, so the
// loaded ledger always satisfies the one-item-per-id rule. The persisted
// cartCount is informational only: the count is recomputed from the items.
// Load neither writes nor notifies.
func (l *Ledger) Load() {
	l.items = nil
	l.total = 0
	if l.store == nil {
		return
	}

	raw, ok, err := l.store.Get(types.KeyCartItems)
	if err != nil {
		l.logger.Warn("load cart items", zap.Error(err))
		return
	}
	if !ok || raw == "" {
		return
	}

	var stored []types.CartLineItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		l.logger.Warn("discarding malformed cart items", zap.Error(err))
		return
	}

	index := make(map[string]int, len(stored))
	for _, it := range stored {
		if !it.Valid() {
			continue
		}
		if i, dup := index[it.ID]; dup {
			l.items[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(l.items)
		l.items = append(l.items, it)
	}
	l.total = types.SumQuantities(l.items)

	if rawCount, ok, _ := l.store.Get(types.KeyCartCount); ok {
		if n, err := strconv.Atoi(rawCount); err != nil || n != l.total {
			l.logger.Debug("persisted cart count disagrees with items",
				zap.String("stored", rawCount), zap.Int("computed", l.total))
		}
	}
}

// Subscribe registers fn for every effective mutation and returns a function
// that removes it.
func (l *Ledger) Subscribe(fn Observer) (unsubscribe func()) {
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	return func() { delete(l.observers, id) }
}

// Snapshot returns the current state without a change tag.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Items: l.Items(), TotalCount: l.total}
}

// Items returns a copy of the line items in display order.
func (l *Ledger) Items() []types.CartLineItem {
	out := make([]types.CartLineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of line items.
func (l *Ledger) Len() int {
	return len(l.items)
}

// TotalCount returns the sum of quantities.
func (l *Ledger) TotalCount() int {
	return l.total
}

// IndexOf returns the current index of the line item with id, or -1.
func (l *Ledger) IndexOf(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Add increments the line item for id, or appends a new one with quantity 1.
// An empty id gets a generated one. It returns the id used.
func (l *Ledger) Add(id, name, price, image string) string {
	if id == "" {
		id = l.newID()
	}

	if i := l.IndexOf(id); i >= 0 {
		l.items[i].Quantity++
	} else {
		l.items = append(l.items, types.CartLineItem{
			ID:       id,
			Name:     name,
			Price:    price,
			Image:    image,
			Quantity: 1,
		})
	}
	l.commit(ChangeAdd, id)
	return id
}

// Remove deletes the line item at index. Out-of-range indices are ignored.
// It reports whether the ledger changed.
func (l *Ledger) Remove(index int) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	id := l.items[index].ID
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.commit(ChangeRemove, id)
	return true
}

// SetQuantity adds delta to the quantity at index. A resulting quantity of
// zero or less removes the item. Out-of-range indices are ignored.
func (l *Ledger) SetQuantity(index, delta int) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	next := l.items[index].Quantity + delta
	if next <= 0 {
		return l.Remove(index)
	}
	l.items[index].Quantity = next
	l.commit(ChangeQuantity, l.items[index].ID)
	return true
}

// RemoveID deletes the line item with id. Unknown ids are ignored.
func (l *Ledger) RemoveID(id string) bool {
	return l.Remove(l.IndexOf(id))
}

// SetQuantityID adds delta to the quantity of the line item with id.
func (l *Ledger) SetQuantityID(id string, delta int) bool {
	return l.SetQuantity(l.IndexOf(id), delta)
}

// Clear empties the ledger. Clearing an empty ledger writes nothing and
// notifies nobody.
func (l *Ledger) Clear() bool {
	if len(l.items) == 0 {
		return false
	}
	l.items = nil
	l.commit(ChangeClear, "")
	return true
}

// commit recomputes the total, persists, and notifies observers.
func (l *Ledger) commit(change Change, id string) {
	l.total = types.SumQuantities(l.items)
	l.persist()

	snap := Snapshot{Items: l.Items(), TotalCount: l.total, Change: change, ID: id}
	for i := 0; i < l.nextObs; i++ {
		if fn, ok := l.observers[i]; ok {
			fn(snap)
		}
	}
}

// persist writes cartItems and cartCount. Failures are logged; the in-memory
// ledger stays authoritative for the rest of the page lifetime.
func (l *Ledger) persist() {
	if l.store == nil {
		return
	}
	items := l.items
	if items == nil {
		items = []types.CartLineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		l.logger.Error("marshal cart items", zap.Error(err))
		return
	}
	if err := l.store.Set(types.KeyCartItems, string(data)); err != nil {
		l.logger.Error("persist cart items", zap.Error(err))
	}
	if err := l.store.Set(types.KeyCartCount, strconv.Itoa(l.total)); err != nil {
		l.logger.Error("persist cart count", zap.Error(err))
	}
}
