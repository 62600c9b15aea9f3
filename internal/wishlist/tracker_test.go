package wishlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/internal/store"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

func newTracker(t *testing.T, s types.Store, products ...string) (*Tracker, *schedule.ManualClock) {
	t.Helper()
	clock := schedule.NewManualClock()
	tr := New(s, WithScheduler(schedule.New(clock, schedule.Inline{})))
	for _, p := range products {
		tr.Register(p)
	}
	return tr, clock
}

func TestTracker_TogglePersistsCountAndIdentities(t *testing.T) {
	s := store.NewMemory()
	tr, _ := newTracker(t, s, "a", "b", "c")

	assert.True(t, tr.Toggle(2))
	assert.True(t, tr.Toggle(0))
	assert.Equal(t, 2, tr.Count())

	count, _, _ := s.Get(types.KeyWishlistCount)
	assert.Equal(t, "2", count)
	ids, _, _ := s.Get(types.KeyWishlistItems)
	assert.JSONEq(t, `["a","c"]`, ids)

	assert.True(t, tr.Toggle(0))
	assert.Equal(t, 1, tr.Count())
	count, _, _ = s.Get(types.KeyWishlistCount)
	assert.Equal(t, "1", count)
}

func TestTracker_ToggleUnknownHandle(t *testing.T) {
	s := store.NewMemory()
	tr, _ := newTracker(t, s, "a")

	assert.False(t, tr.Toggle(-1))
	assert.False(t, tr.Toggle(1))
	assert.False(t, tr.ToggleProduct("zzz"))
	_, ok, _ := s.Get(types.KeyWishlistCount)
	assert.False(t, ok)
}

func TestTracker_IconsFollowActiveFlag(t *testing.T) {
	tr, _ := newTracker(t, store.NewMemory(), "a")

	b := tr.Buttons()[0]
	assert.True(t, b.OutlineVisible())
	assert.False(t, b.FilledVisible())

	tr.Toggle(0)
	b = tr.Buttons()[0]
	assert.False(t, b.OutlineVisible())
	assert.True(t, b.FilledVisible())
}

func TestTracker_PulseClearsAfterDelay(t *testing.T) {
	tr, clock := newTracker(t, store.NewMemory(), "a")
	var changes []Change
	tr.Subscribe(func(s Snapshot) { changes = append(changes, s.Change) })

	tr.Toggle(0)
	assert.True(t, tr.Buttons()[0].Pulsing)

	clock.Advance(PulseDuration - time.Millisecond)
	assert.True(t, tr.Buttons()[0].Pulsing)
	clock.Advance(time.Millisecond)
	assert.False(t, tr.Buttons()[0].Pulsing)
	assert.Equal(t, []Change{ChangeToggle, ChangePulse}, changes)
}

func TestTracker_RestoreByIdentity(t *testing.T) {
	s := store.NewMemory()
	first, _ := newTracker(t, s, "a", "b", "c", "d")
	first.Toggle(1)
	first.Toggle(3)

	// Markup reordered between page loads.
	second, _ := newTracker(t, s, "d", "c", "b", "a")
	second.Load()
	assert.Equal(t, 2, second.Count())
	second.Restore()

	assert.Equal(t, []string{"d", "b"}, second.ActiveIDs())
	assert.Equal(t, 2, second.Count())
}

func TestTracker_RestoreByCountHeuristic(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Set(types.KeyWishlistCount, "2"))

	tr, _ := newTracker(t, s, "x", "y", "z")
	tr.Load()
	tr.Restore()

	assert.Equal(t, []string{"x", "y"}, tr.ActiveIDs())
	assert.Equal(t, 2, tr.Count())
}

func TestTracker_RestoreClampsCountToButtons(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Set(types.KeyWishlistCount, "9"))

	tr, _ := newTracker(t, s, "x", "y")
	tr.Load()
	assert.Equal(t, 9, tr.Count())
	tr.Restore()
	assert.Equal(t, 2, tr.Count())

	v, _, err := s.Get(types.KeyWishlistCount)
	require.NoError(t, err)
	assert.Equal(t, "2", v, "clamped count is written back")
	_, ok, err := s.Get(types.KeyWishlistItems)
	require.NoError(t, err)
	assert.False(t, ok, "the count fallback does not invent identities")
}

func TestTracker_RestoreRewritesCountForMissingProducts(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Set(types.KeyWishlistCount, "2"))
	require.NoError(t, s.Set(types.KeyWishlistItems, `["a","gone"]`))

	tr, _ := newTracker(t, s, "a", "b")
	tr.Load()
	tr.Restore()

	assert.Equal(t, 1, tr.Count())
	v, _, err := s.Get(types.KeyWishlistCount)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestTracker_RestoreLeavesMatchingCountAlone(t *testing.T) {
	s := store.NewMemory()
	tr, _ := newTracker(t, s, "a", "b")
	tr.Load()
	tr.Restore()

	_, ok, err := s.Get(types.KeyWishlistCount)
	require.NoError(t, err)
	assert.False(t, ok, "an empty wishlist writes nothing")
}

func TestTracker_LoadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		count string
		items string
	}{
		{"non-numeric count", "many", ""},
		{"negative count", "-3", ""},
		{"malformed items", "", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemory()
			if tt.count != "" {
				require.NoError(t, s.Set(types.KeyWishlistCount, tt.count))
			}
			if tt.items != "" {
				require.NoError(t, s.Set(types.KeyWishlistItems, tt.items))
			}
			tr, _ := newTracker(t, s, "a", "b")
			tr.Load()
			tr.Restore()
			assert.Equal(t, 0, tr.Count())
			assert.Empty(t, tr.ActiveIDs())
		})
	}
}

func TestTracker_CountInvariant(t *testing.T) {
	tr, _ := newTracker(t, store.NewMemory(), "a", "b", "c")
	for i := 0; i < 50; i++ {
		tr.Toggle(i % 4)
		assert.GreaterOrEqual(t, tr.Count(), 0)
		assert.LessOrEqual(t, tr.Count(), len(tr.Buttons()))
	}
}
