package plugins

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-nopower/internal/game"
)

type EventKind int

const (
	// EventServerInitialized fires once after the world is loaded and before
	// the first tick.
	EventServerInitialized EventKind = iota
	// EventPlayerInput fires every tick for every connected player.
	EventPlayerInput
	// EventServerSave fires when the server persists its state.
	EventServerSave
	// EventUnload fires once when the server shuts down.
	EventUnload
)

func (k EventKind) String() string {
	switch k {
	case EventServerInitialized:
		return "server_initialized"
	case EventPlayerInput:
		return "player_input"
	case EventServerSave:
		return "server_save"
	case EventUnload:
		return "unload"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is passed to hooks. Player and Input are only set for EventPlayerInput.
type Event struct {
	Kind   EventKind
	Player *game.Player
	Input  game.InputState
}

type HookFunc func(context.Context, Event) error

// Hooks maps the events a plugin handles to its handlers.
type Hooks map[EventKind]HookFunc

type Plugin interface {
	Key() string
	Init(context.Context, *Host) error
	Hooks() Hooks
}

type registration struct {
	plugin Plugin
	hooks  Hooks
}

type PluginManager struct {
	host    *Host
	plugins []registration
}

func NewPluginManager(host *Host) *PluginManager {
	return &PluginManager{host: host}
}

func (m *PluginManager) Register(ctx context.Context, p Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin is nil")
	}
	if err := m.host.Validate(); err != nil {
		return err
	}
	for _, r := range m.plugins {
		if r.plugin.Key() == p.Key() {
			return fmt.Errorf("plugin %s already registered", p.Key())
		}
	}

	err := p.Init(ctx, m.host)
	if err != nil {
		return fmt.Errorf("initializing %s: %w", p.Key(), err)
	}

	m.plugins = append(m.plugins, registration{plugin: p, hooks: p.Hooks()})
	slog.InfoContext(ctx, "registered plugin", "key", p.Key())

	return nil
}

// Dispatch calls every registered hook for the event in registration order.
// A failing hook does not stop the others; all errors are returned together.
func (m *PluginManager) Dispatch(ctx context.Context, ev Event) error {
	el := errors.NewErrorList()

	for _, r := range m.plugins {
		hook, ok := r.hooks[ev.Kind]
		if !ok || hook == nil {
			continue
		}

		err := hook(ctx, ev)
		if err != nil {
			el.Add(fmt.Errorf("%s %s: %w", r.plugin.Key(), ev.Kind, err))
		}
	}

	return el.Err()
}

// Keys lists registered plugins in registration order.
func (m *PluginManager) Keys() []string {
	keys := make([]string, len(m.plugins))
	for i, r := range m.plugins {
		keys[i] = r.plugin.Key()
	}
	return keys
}
