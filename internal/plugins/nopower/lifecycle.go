package nopower

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/plugins"
)

var managedKinds = []game.StructureKind{game.KindTurret, game.KindSamSite}

// onServerInitialized powers every live structure whose id was saved. Other
// structures keep whatever state the world gave them.
func (p *Plugin) onServerInitialized(ctx context.Context, _ plugins.Event) error {
	el := errors.NewErrorList()
	restored := 0

	for _, kind := range managedKinds {
		for _, s := range p.host.World.Structures(kind) {
			if !p.powered.Contains(kind, s.Id) {
				continue
			}

			err := p.setPowered(s, true)
			if err != nil {
				el.Add(fmt.Errorf("restoring %d: %w", s.Id, err))
				continue
			}
			el.Add(p.host.Replicator.SendNetworkUpdate(ctx, s))
			restored++
		}
	}

	slog.InfoContext(ctx, "restored powered structures", "count", restored)
	return el.Err()
}

func (p *Plugin) onServerSave(ctx context.Context, _ plugins.Event) error {
	return p.saveData(ctx)
}

// onUnload switches every live structure off and flushes the data file. The
// saved ids stay so the structures come back on at the next start.
func (p *Plugin) onUnload(ctx context.Context, _ plugins.Event) error {
	el := errors.NewErrorList()

	for _, kind := range managedKinds {
		for _, s := range p.host.World.Structures(kind) {
			if !s.IsOnline() {
				continue
			}

			err := p.setPowered(s, false)
			if err != nil {
				el.Add(fmt.Errorf("powering down %d: %w", s.Id, err))
				continue
			}
			el.Add(p.host.Replicator.SendNetworkUpdate(ctx, s))
		}
	}

	el.Add(p.saveData(ctx))
	return el.Err()
}
