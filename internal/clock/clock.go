package clock

import "time"

// Clock abstracts time so services and jobs can be tested deterministically.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
	After(d time.Duration) <-chan time.Time
	LoadLocation(name string) (*time.Location, error)
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time                          { return time.Now() }
func (RealClock) NowUTC() time.Time                       { return time.Now().UTC() }
func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (RealClock) LoadLocation(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}

// AnchorClock always reports the anchor time. Interaction handlers use it so
// relative input ("tomorrow at 8pm") is resolved against the moment the command
// was issued, even if the handler runs later.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates an AnchorClock; the zero time anchors to now.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) Now() time.Time                          { return c.anchor }
func (c AnchorClock) NowUTC() time.Time                       { return c.anchor.UTC() }
func (c AnchorClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (c AnchorClock) LoadLocation(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}

// FakeClock is a Clock with overridable functions.
type FakeClock struct {
	NowFn          func() time.Time
	AfterFn        func(d time.Duration) <-chan time.Time
	LoadLocationFn func(name string) (*time.Location, error)
}

// NewFakeClock returns a FakeClock fixed at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{NowFn: func() time.Time { return t }}
}

func (f *FakeClock) Now() time.Time {
	if f.NowFn != nil {
		return f.NowFn()
	}
	return time.Now()
}

func (f *FakeClock) NowUTC() time.Time {
	return f.Now().UTC()
}

func (f *FakeClock) After(d time.Duration) <-chan time.Time {
	if f.AfterFn != nil {
		return f.AfterFn(d)
	}
	return time.After(d)
}

func (f *FakeClock) LoadLocation(name string) (*time.Location, error) {
	if f.LoadLocationFn != nil {
		return f.LoadLocationFn(name)
	}
	return time.LoadLocation(name)
}

var (
	_ Clock = RealClock{}
	_ Clock = AnchorClock{}
	_ Clock = (*FakeClock)(nil)
)
