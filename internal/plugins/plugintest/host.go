// Package plugintest provides an in-memory host for plugin tests.
package plugintest

import (
	"context"
	"sync"
	"testing"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/lang"
	"github.com/pixil98/go-nopower/internal/permission"
	"github.com/pixil98/go-nopower/internal/plugins"
	"golang.org/x/text/language"
)

// ChatLine is one recorded chat message.
type ChatLine struct {
	To  game.UserId
	Msg string
}

// Chat records chat messages instead of delivering them.
type Chat struct {
	mu    sync.Mutex
	lines []ChatLine
	Err   error
}

func (c *Chat) ChatMessage(_ context.Context, to game.UserId, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return c.Err
	}
	c.lines = append(c.lines, ChatLine{To: to, Msg: msg})
	return nil
}

// Lines returns the recorded messages in order.
func (c *Chat) Lines() []ChatLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChatLine(nil), c.lines...)
}

// Replicator records replicated snapshots.
type Replicator struct {
	mu      sync.Mutex
	updates []game.Snapshot
	Err     error
}

func (r *Replicator) SendNetworkUpdate(_ context.Context, s *game.Structure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.updates = append(r.updates, s.Snapshot())
	return nil
}

// Updates returns the recorded snapshots in order.
func (r *Replicator) Updates() []game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.Snapshot(nil), r.updates...)
}

// NewHost returns a host with an empty world, in-memory permissions, recording
// chat and replication, and data/config directories under t.TempDir().
func NewHost(t *testing.T) (*plugins.Host, *Chat, *Replicator) {
	t.Helper()

	perms, err := permission.NewRegistry(nil)
	if err != nil {
		t.Fatalf("creating permission registry: %v", err)
	}

	chat := &Chat{}
	repl := &Replicator{}
	dir := t.TempDir()

	host := &plugins.Host{
		World:       game.NewWorldState(),
		Permissions: perms,
		Lang:        lang.New(language.English),
		Chat:        chat,
		Replicator:  repl,
		DataDir:     dir + "/data",
		ConfigDir:   dir + "/config",
	}
	return host, chat, repl
}
