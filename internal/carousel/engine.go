// Package carousel implements the looping carousel state machine shared by
// the product and testimonial carousels on the index page.
//
// Position is held as a step index; the pixel offset rendered to the View is
// always -index*moveDistance, so after any step, resize, or visible count
// change it lies within [maxPosition, 0].
package carousel

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/internal/logging"
	"github.com/mesh-intelligence/storefront/internal/schedule"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// State is the auto-advance state of an Engine.
type State string

// Engine states.
const (
	StateIdle          State = "idle"
	StateAutoAdvancing State = "auto-advancing"
	StatePaused        State = "paused"
)

// View renders an Engine. Each preset decides how disabled controls look:
// the product carousel greys them out, the testimonial carousel hides them.
type View interface {
	SetOffset(position int)
	SetControls(prevDisabled, nextDisabled bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(logger) }
}

// WithItemWidth sets the measured item width used until the first Resize.
func WithItemWidth(width int) Option {
	return func(e *Engine) { e.moveDistance = e.preset.moveDistance(width) }
}

// Engine is one carousel instance. Like the rest of the page it expects all
// calls, including timer callbacks, on the event thread.
type Engine struct {
	preset   Preset
	view     View
	logger   *zap.Logger
	ticker   *schedule.Ticker
	debounce *schedule.Debouncer

	index        int
	maxIndex     int
	visible      int
	pendingWidth int
	moveDistance int

	autoAdvance bool
	hovering    bool
}

// New creates an idle engine with no visible items. A nil view renders
// nowhere; a nil scheduler uses the real clock.
func New(preset Preset, view View, sched *schedule.Scheduler, opts ...Option) *Engine {
	if sched == nil {
		sched = schedule.New(nil, nil)
	}
	e := &Engine{
		preset: preset,
		view:   view,
		logger: zap.NewNop(),
	}
	e.moveDistance = preset.moveDistance(0)
	e.ticker = sched.Ticker(preset.Interval, e.tick)
	if preset.ResizeDebounce > 0 {
		e.debounce = sched.Debouncer(preset.ResizeDebounce, func() { e.applyResize(e.pendingWidth) })
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init sets the visible count, renders position 0, and starts auto-advance
// when enabled.
func (e *Engine) Init(visible int, autoAdvance bool) {
	e.ticker.Stop()
	e.index = 0
	e.visible = max(visible, 0)
	e.recompute()
	e.SetAutoAdvance(autoAdvance)
}

// Filter handles a category change on the product carousel: auto-advance is
// stopped and re-enabled only for autoAdvance, the position returns to 0,
// and the bounds follow the new visible count.
func (e *Engine) Filter(visible int, autoAdvance bool) {
	e.Init(visible, autoAdvance)
}

// Advance steps once in dir, wrapping at either end, and renders. It does
// not touch the timer.
func (e *Engine) Advance(dir types.Direction) {
	switch dir {
	case types.DirectionNext:
		if e.index < e.maxIndex {
			e.index++
		} else {
			e.index = 0
		}
	case types.DirectionPrev:
		if e.index > 0 {
			e.index--
		} else {
			e.index = e.maxIndex
		}
	default:
		return
	}
	e.render()
}

// Next is a manual step forward.
func (e *Engine) Next() {
	e.manual(types.DirectionNext)
}

// Prev is a manual step back.
func (e *Engine) Prev() {
	e.manual(types.DirectionPrev)
}

func (e *Engine) manual(dir types.Direction) {
	e.ticker.Stop()
	e.Advance(dir)

	if !e.autoAdvance {
		return
	}
	switch e.preset.Resume {
	case ResumeImmediately:
		e.ticker.Reset()
	case ResumeWhenAll:
		if !e.hovering {
			e.ticker.Start()
		}
	}
}

// PointerEnter pauses auto-advance while the pointer is over the carousel.
func (e *Engine) PointerEnter() {
	e.hovering = true
	if e.ticker.Running() {
		e.ticker.Stop()
		e.logger.Debug("carousel paused", zap.String("carousel", e.preset.Name))
	}
}

// PointerLeave resumes auto-advance if it is enabled.
func (e *Engine) PointerLeave() {
	e.hovering = false
	if e.autoAdvance {
		e.ticker.Start()
		e.logger.Debug("carousel resumed", zap.String("carousel", e.preset.Name))
	}
}

// SetAutoAdvance enables or disables the periodic step. Enabling starts the
// timer unless the pointer is over the carousel.
func (e *Engine) SetAutoAdvance(enabled bool) {
	e.autoAdvance = enabled
	if enabled && !e.hovering {
		e.ticker.Start()
		return
	}
	e.ticker.Stop()
}

// SetVisibleCount recomputes the bounds for n visible items and re-clamps
// the current position.
func (e *Engine) SetVisibleCount(n int) {
	e.visible = max(n, 0)
	e.recompute()
}

// Resize records a new item width in pixels; zero or less means unknown.
// With a debounce configured only the last width of a burst is applied.
func (e *Engine) Resize(itemWidth int) {
	if e.debounce == nil {
		e.applyResize(itemWidth)
		return
	}
	e.pendingWidth = itemWidth
	e.debounce.Trigger()
}

func (e *Engine) applyResize(itemWidth int) {
	e.moveDistance = e.preset.moveDistance(itemWidth)
	e.recompute()
}

// Stop cancels the timer and any pending resize. The engine can be started
// again with Init or SetAutoAdvance.
func (e *Engine) Stop() {
	e.ticker.Stop()
	if e.debounce != nil {
		e.debounce.Stop()
	}
}

func (e *Engine) tick() {
	e.Advance(types.DirectionNext)
}

func (e *Engine) recompute() {
	e.maxIndex = e.preset.maxIndex(e.visible)
	if e.index > e.maxIndex {
		e.index = e.maxIndex
	}
	e.render()
}

func (e *Engine) render() {
	if e.view == nil {
		return
	}
	e.view.SetOffset(e.Position())
	e.view.SetControls(e.index == 0, e.index == e.maxIndex)
}

// Position is the current offset in pixels, in [MaxPosition, 0].
func (e *Engine) Position() int {
	return -e.index * e.moveDistance
}

// MaxPosition is the offset of the last step.
func (e *Engine) MaxPosition() int {
	return -e.maxIndex * e.moveDistance
}

// MoveDistance is the distance of one step in pixels.
func (e *Engine) MoveDistance() int {
	return e.moveDistance
}

// Index is the current step index.
func (e *Engine) Index() int {
	return e.index
}

// VisibleCount is the number of items the bounds are computed for.
func (e *Engine) VisibleCount() int {
	return e.visible
}

// Preset returns the engine configuration.
func (e *Engine) Preset() Preset {
	return e.preset
}

// State reports the auto-advance state.
func (e *Engine) State() State {
	switch {
	case !e.autoAdvance:
		return StateIdle
	case e.ticker.Running():
		return StateAutoAdvancing
	default:
		return StatePaused
	}
}
