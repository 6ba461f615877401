package plugins

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/lang"
	"github.com/pixil98/go-nopower/internal/permission"
	"github.com/pixil98/go-nopower/internal/storage"
)

// Chat delivers a chat line to a single player.
type Chat interface {
	ChatMessage(ctx context.Context, to game.UserId, msg string) error
}

// Replicator pushes the current state of a structure to clients immediately.
type Replicator interface {
	SendNetworkUpdate(ctx context.Context, s *game.Structure) error
}

// Host is everything a plugin may use from the server. It is built once by the
// server and handed to each plugin on Init.
type Host struct {
	World       *game.WorldState
	Permissions *permission.Registry
	Lang        *lang.Localizer
	Chat        Chat
	Replicator  Replicator

	DataDir   string
	ConfigDir string
}

func (h *Host) Validate() error {
	switch {
	case h.World == nil:
		return fmt.Errorf("host world is required")
	case h.Permissions == nil:
		return fmt.Errorf("host permissions are required")
	case h.Lang == nil:
		return fmt.Errorf("host localizer is required")
	case h.Chat == nil:
		return fmt.Errorf("host chat is required")
	case h.Replicator == nil:
		return fmt.Errorf("host replicator is required")
	}
	return nil
}

// DataFile returns the plugin data file with the given name.
func (h *Host) DataFile(name string) *storage.DataFile {
	return storage.NewDataFile(h.DataDir, name)
}

// ConfigPath returns the path of the configuration file with the given name.
// An empty ConfigDir keeps plugin configuration in memory.
func (h *Host) ConfigPath(name string) string {
	if h.ConfigDir == "" {
		return ""
	}
	return filepath.Join(h.ConfigDir, fmt.Sprintf("%s.json", name))
}
