package layers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Add(d time.Duration) { c.now = c.now.Add(d) }

func TestTime_AdvanceAccumulates(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	tm := NewTime(clock.Now)

	assert.Zero(t, tm.Elapsed())

	clock.Add(250 * time.Millisecond)
	tm.Advance()
	assert.Equal(t, 250*time.Millisecond, tm.Dt)
	assert.InDelta(t, 0.25, tm.Elapsed(), 1e-9)
	assert.InDelta(t, 0.25, tm.DtSeconds(), 1e-6)

	clock.Add(time.Second)
	tm.Advance()
	assert.InDelta(t, 1.25, tm.Elapsed(), 1e-9)
}

func TestTime_BackwardsClockHoldsElapsed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	tm := NewTime(clock.Now)

	clock.Add(2 * time.Second)
	tm.Advance()

	clock.Add(-5 * time.Second)
	tm.Advance()
	assert.Zero(t, tm.Dt)
	assert.InDelta(t, 2.0, tm.Elapsed(), 1e-9)

	clock.Add(4 * time.Second)
	tm.Advance()
	assert.Equal(t, time.Second, tm.Dt)
	assert.InDelta(t, 3.0, tm.Elapsed(), 1e-9)
}

func TestTime_NoAdvanceWithoutTick(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	tm := NewTime(clock.Now)
	clock.Add(time.Hour)

	assert.Zero(t, tm.Elapsed())
}

func TestTimeModule_AdvancesInPrelude(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	app := NewAppBuilder().UseModule(TimeModule{Now: clock.Now}).Build()

	clock.Add(100 * time.Millisecond)
	app.Step()

	tm := MustResource[Time](app)
	assert.InDelta(t, 0.1, tm.Elapsed(), 1e-9)
}
