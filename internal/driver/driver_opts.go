package driver

import (
	"context"
	"time"
)

type DriverOpt func(*Driver)

func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}

// WithSaveInterval sets how often a save is dispatched. Zero disables
// periodic saves.
func WithSaveInterval(interval time.Duration) DriverOpt {
	return func(d *Driver) {
		d.saveInterval = interval
	}
}

// WithStartGate makes Start block on wait before the first event is
// dispatched. Start returns the gate's error if it fails.
func WithStartGate(wait func(context.Context) error) DriverOpt {
	return func(d *Driver) {
		d.gates = append(d.gates, wait)
	}
}

func withClock(now func() time.Time) DriverOpt {
	return func(d *Driver) {
		d.now = now
	}
}
