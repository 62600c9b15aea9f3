package carousel

import "time"

// StepMode selects how far one step moves.
type StepMode int

const (
	// StepItem moves one item per step; the last position shows the final
	// PageSize items.
	StepItem StepMode = iota
	// StepPage moves a full page per step.
	StepPage
)

// Resume selects what a manual Next or Prev does to auto-advance.
type Resume int

const (
	// ResumeWhenAll restarts auto-advance after a manual step only while it
	// is enabled and the pointer is outside the carousel.
	ResumeWhenAll Resume = iota
	// ResumeImmediately resets the timer after every manual step while
	// auto-advance is enabled, even under the pointer.
	ResumeImmediately
)

// Preset is the fixed configuration of one carousel instance.
type Preset struct {
	Name     string
	PageSize int
	Interval time.Duration
	// Gap is added to a measured item width to get one item step.
	Gap int
	// DefaultItemStep is the item step used while no width is known.
	DefaultItemStep int
	Step            StepMode
	Resume          Resume
	// ResizeDebounce delays Resize; zero applies it at once.
	ResizeDebounce time.Duration
}

// Product is the index page product carousel.
var Product = Preset{
	Name:            "product",
	PageSize:        4,
	Interval:        3 * time.Second,
	Gap:             30,
	DefaultItemStep: 310,
	Step:            StepItem,
	Resume:          ResumeWhenAll,
}

// Testimonial is the index page testimonial carousel.
var Testimonial = Preset{
	Name:            "testimonial",
	PageSize:        3,
	Interval:        5 * time.Second,
	Gap:             20,
	DefaultItemStep: 300,
	Step:            StepPage,
	Resume:          ResumeImmediately,
	ResizeDebounce:  250 * time.Millisecond,
}

// itemStep is the distance of one item for a measured width.
func (p Preset) itemStep(width int) int {
	if width <= 0 {
		return p.DefaultItemStep
	}
	return width + p.Gap
}

// moveDistance is the distance of one carousel step.
func (p Preset) moveDistance(width int) int {
	step := p.itemStep(width)
	if p.Step == StepPage {
		return step * p.pageSize()
	}
	return step
}

// maxIndex is the last step index for visible items.
func (p Preset) maxIndex(visible int) int {
	size := p.pageSize()
	var n int
	if p.Step == StepPage {
		n = (visible+size-1)/size - 1
	} else {
		n = visible - size
	}
	if n < 0 {
		return 0
	}
	return n
}

func (p Preset) pageSize() int {
	if p.PageSize < 1 {
		return 1
	}
	return p.PageSize
}
