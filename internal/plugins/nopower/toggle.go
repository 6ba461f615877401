package nopower

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/plugins"
)

func (p *Plugin) onPlayerInput(ctx context.Context, ev plugins.Event) error {
	if ev.Player == nil || !ev.Input.WasJustPressed(p.settings.button) {
		return nil
	}
	return p.tryToggle(ctx, ev.Player)
}

// target returns the managed structure the player is looking at within reach.
func (p *Plugin) target(player *game.Player) (*game.Structure, bool) {
	hit, ok := p.host.World.SphereCast(player.Eyes(), ProbeRadius, player.Forward())
	if !ok || hit.Distance >= MaxToggleDistance {
		return nil, false
	}

	switch hit.Structure.Kind {
	case game.KindTurret, game.KindSamSite:
		return hit.Structure, true
	default:
		return nil, false
	}
}

// tryToggle flips the structure in front of the player if they are allowed to.
// Players without the permission are told so before anything is probed.
func (p *Plugin) tryToggle(ctx context.Context, player *game.Player) error {
	if !p.host.Permissions.UserHasPermission(player.Id, PermissionUse) {
		slog.DebugContext(ctx, "toggle denied", "player", player.Id, "reason", DenyNoPermission)
		return p.reply(ctx, player, DenyNoPermission.MessageKey())
	}

	s, ok := p.target(player)
	if !ok {
		return nil
	}

	if d := p.authorize(player, s); d != Authorized {
		slog.DebugContext(ctx, "toggle denied", "player", player.Id, "structure", s.Id, "reason", d)
		return p.reply(ctx, player, d.MessageKey())
	}

	return p.Toggle(ctx, s)
}

// Toggle switches s to the opposite state, records it and replicates it.
func (p *Plugin) Toggle(ctx context.Context, s *game.Structure) error {
	online := !s.IsOnline()
	if err := p.setPowered(s, online); err != nil {
		return err
	}

	if online {
		p.powered.Add(s.Kind, s.Id)
	} else {
		p.powered.Remove(s.Kind, s.Id)
	}

	slog.InfoContext(ctx, "toggled structure", "structure", s.Id, "kind", s.Kind, "online", online)

	return p.host.Replicator.SendNetworkUpdate(ctx, s)
}

func (p *Plugin) setPowered(s *game.Structure, on bool) error {
	switch s.Kind {
	case game.KindTurret:
		return s.SetOnline(on)
	case game.KindSamSite:
		level := 0
		if on {
			level = SamPowerLevel
		}
		return s.UpdateHasPower(level)
	default:
		return fmt.Errorf("structure %d is not managed: %s", s.Id, s.Kind)
	}
}
