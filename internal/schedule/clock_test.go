package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_FiresInDueOrder(t *testing.T) {
	c := NewManualClock()
	var order []string
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(150 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, 2, c.Pending())

	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 1150*time.Millisecond, c.Elapsed())
}

func TestManualClock_StopPreventsFire(t *testing.T) {
	c := NewManualClock()
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second Stop reports nothing to stop")
	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManualClock_CallbackSchedulesWithinWindow(t *testing.T) {
	c := NewManualClock()
	count := 0
	var tick func()
	tick = func() {
		count++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(5 * time.Second)
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, c.Pending())
}
