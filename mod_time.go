package layers

import (
	"time"
)

// Time is the animation clock. Elapsed never decreases: a host clock that
// steps backwards produces a zero Dt and the previous reading is kept.
type Time struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration

	elapsed time.Duration
	now     func() time.Time
}

func NewTime(now func() time.Time) *Time {
	if now == nil {
		now = time.Now
	}
	start := now()
	return &Time{
		Start: start,
		Time:  start,
		now:   now,
	}
}

// Advance reads the host clock once. Called once per frame tick.
func (t *Time) Advance() {
	current := t.now()
	if current.Before(t.Time) {
		t.Dt = 0
		return
	}

	t.Dt = current.Sub(t.Time)
	t.Time = current
	t.elapsed += t.Dt
}

// Elapsed returns seconds since the clock started.
func (t *Time) Elapsed() float64 {
	return t.elapsed.Seconds()
}

// DtSeconds returns the last frame delta in seconds.
func (t *Time) DtSeconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct {
	// Now overrides the host clock; nil means time.Now.
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewTime(mod.Now))
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	timeResource.Advance()
}
