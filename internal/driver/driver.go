package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/plugins"
)

const (
	DefaultTickLength   = time.Second / 10
	DefaultSaveInterval = 5 * time.Minute
)

// Dispatcher delivers events to plugins.
type Dispatcher interface {
	Dispatch(context.Context, plugins.Event) error
}

// Driver runs the server tick. All plugin events are dispatched from the
// goroutine running Start, one at a time.
type Driver struct {
	tickLength   time.Duration
	saveInterval time.Duration
	world        *game.WorldState
	dispatcher   Dispatcher

	gates        []func(context.Context) error
	saveRequests chan struct{}
	lastSave     time.Time
	now          func() time.Time
}

func NewDriver(world *game.WorldState, dispatcher Dispatcher, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength:   DefaultTickLength,
		saveInterval: DefaultSaveInterval,
		world:        world,
		dispatcher:   dispatcher,
		saveRequests: make(chan struct{}, 1),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	for _, wait := range d.gates {
		if err := wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("waiting to start: %w", err)
		}
	}

	d.dispatch(ctx, plugins.Event{Kind: plugins.EventServerInitialized})
	d.lastSave = d.now()

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Shutdown(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs one server tick: pending saves, then input for every player.
func (d *Driver) Tick(ctx context.Context) {
	select {
	case <-d.saveRequests:
		d.save(ctx)
	default:
		if d.saveInterval > 0 && d.now().Sub(d.lastSave) >= d.saveInterval {
			d.save(ctx)
		}
	}

	for _, p := range d.world.Players() {
		in := p.Input()
		d.dispatch(ctx, plugins.Event{
			Kind:   plugins.EventPlayerInput,
			Player: p,
			Input:  in,
		})
		p.Advance(in)
	}
}

// RequestSave asks for a save on the next tick. Safe to call from any goroutine.
func (d *Driver) RequestSave() {
	select {
	case d.saveRequests <- struct{}{}:
	default:
		// a save is already pending
	}
}

// Shutdown unloads plugins. Start calls it when its context is canceled.
func (d *Driver) Shutdown(ctx context.Context) {
	slog.InfoContext(ctx, "unloading plugins")
	d.dispatch(ctx, plugins.Event{Kind: plugins.EventUnload})
}

func (d *Driver) save(ctx context.Context) {
	d.lastSave = d.now()
	d.dispatch(ctx, plugins.Event{Kind: plugins.EventServerSave})
}

func (d *Driver) dispatch(ctx context.Context, ev plugins.Event) {
	err := d.dispatcher.Dispatch(ctx, ev)
	if err != nil {
		slog.ErrorContext(ctx, "plugin hook failed", "event", ev.Kind, "error", err)
	}
}
