package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time to components with time-based rules.
type Clock interface {
	Now() time.Time
}

// Module provides the wall clock to Fx.
var Module = fx.Provide(func() Clock { return System{} })

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Func adapts a plain function into a Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }
