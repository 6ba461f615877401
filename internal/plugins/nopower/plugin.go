// Package nopower lets authorized players switch auto turrets and SAM sites on
// and off without wiring them to electricity.
package nopower

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pixil98/go-nopower/internal/display"
	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/plugins"
	"github.com/pixil98/go-nopower/internal/storage"
)

const (
	pluginKey = "nopower"
	fileName  = "NoPower"

	// PermissionUse must be granted to a player before they can toggle anything.
	PermissionUse = "nopower.use"

	// SamPowerLevel is the power a SAM site receives when switched on.
	SamPowerLevel = 25

	// ProbeRadius is the radius of the sphere swept from the player's eyes.
	ProbeRadius = 0.5
	// MaxToggleDistance is how far a structure may be from the player's eyes.
	MaxToggleDistance = 1.5
)

//go:embed locales/*.po
var locales embed.FS

// Plugin is the power toggle. Create it with New and register it with a
// plugins.PluginManager.
type Plugin struct {
	host     *plugins.Host
	data     *storage.DataFile
	powered  *PoweredData
	settings settings
}

func New() *Plugin {
	return &Plugin{
		powered:  NewPoweredData(),
		settings: defaultSettings(),
	}
}

func (p *Plugin) Key() string {
	return pluginKey
}

func (p *Plugin) Init(ctx context.Context, h *plugins.Host) error {
	p.host = h

	p.settings = loadSettings(ctx, h.ConfigPath(fileName))

	err := h.Permissions.RegisterPermission(PermissionUse, pluginKey)
	if err != nil {
		return fmt.Errorf("registering permission: %w", err)
	}

	catalogs, err := fs.Sub(locales, "locales")
	if err != nil {
		return fmt.Errorf("opening catalogs: %w", err)
	}
	err = h.Lang.RegisterMessages(pluginKey, catalogs)
	if err != nil {
		return fmt.Errorf("registering messages: %w", err)
	}

	p.data = h.DataFile(fileName)
	p.powered = loadPoweredData(ctx, p.data)

	return nil
}

func (p *Plugin) Hooks() plugins.Hooks {
	return plugins.Hooks{
		plugins.EventServerInitialized: p.onServerInitialized,
		plugins.EventPlayerInput:       p.onPlayerInput,
		plugins.EventServerSave:        p.onServerSave,
		plugins.EventUnload:            p.onUnload,
	}
}

// Powered exposes the powered id sets.
func (p *Plugin) Powered() *PoweredData {
	return p.powered
}

// Button returns the configured toggle button.
func (p *Plugin) Button() game.Button {
	return p.settings.button
}

// loadPoweredData reads the data file. Anything unreadable starts the plugin
// with nothing powered.
func loadPoweredData(ctx context.Context, f *storage.DataFile) *PoweredData {
	d := NewPoweredData()

	err := f.ReadObject(d)
	if errors.Is(err, storage.ErrNoData) {
		return NewPoweredData()
	}
	if err != nil {
		slog.WarnContext(ctx, "discarding unreadable data file", "path", f.Path(), "error", err)
		return NewPoweredData()
	}

	return d
}

func (p *Plugin) saveData(ctx context.Context) error {
	err := p.data.WriteObject(p.powered)
	if err != nil {
		return fmt.Errorf("saving powered data: %w", err)
	}
	slog.DebugContext(ctx, "saved powered data",
		"turrets", len(p.powered.Ids(game.KindTurret)),
		"sams", len(p.powered.Ids(game.KindSamSite)),
	)
	return nil
}

type chatData struct {
	Message string
	Player  string
}

// reply sends a localized message to a player.
func (p *Plugin) reply(ctx context.Context, player *game.Player, key string) error {
	msg := p.host.Lang.GetMessage(pluginKey, key, player.Locale())

	line, err := p.settings.chatFormat.Execute(chatData{Message: msg, Player: player.Name()})
	if err != nil {
		slog.WarnContext(ctx, "formatting chat message", "key", key, "error", err)
		line = msg
	}

	return p.host.Chat.ChatMessage(ctx, player.Id, display.Wrap(line))
}
