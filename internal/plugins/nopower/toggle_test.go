package nopower

import (
	"testing"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/plugins/plugintest"
	"github.com/pixil98/go-testutil"
)

func TestToggle_Symmetry(t *testing.T) {
	tests := map[string]struct {
		eyes  game.Vec3
		id    game.EntityId
		kind  game.StructureKind
		power int
	}{
		"turret": {eyes: turretEyes, id: turretId, kind: game.KindTurret},
		"sam":    {eyes: samEyes, id: samId, kind: game.KindSamSite, power: SamPowerLevel},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.player.SetView(tt.eyes, game.Vec3{})
			s := f.host.World.Structure(tt.id)

			f.press(t, f.player, game.ButtonFireThird)
			testutil.AssertEqual(t, "on", s.IsOnline(), true)
			testutil.AssertEqual(t, "power", s.Power(), tt.power)
			testutil.AssertEqual(t, "recorded", f.plugin.Powered().Ids(tt.kind), []game.EntityId{tt.id})

			f.press(t, f.player, game.ButtonFireThird)
			testutil.AssertEqual(t, "off", s.IsOnline(), false)
			testutil.AssertEqual(t, "power off", s.Power(), 0)
			testutil.AssertEqual(t, "forgotten", f.plugin.Powered().Ids(tt.kind), []game.EntityId{})

			testutil.AssertEqual(t, "replications", f.repl.Updates(), []game.Snapshot{
				{Id: tt.id, Kind: tt.kind, Online: true, Power: tt.power},
				{Id: tt.id, Kind: tt.kind, Online: false},
			})
			testutil.AssertEqual(t, "messages", len(f.chat.Lines()), 0)
		})
	}
}

func TestToggle_Denials(t *testing.T) {
	tests := map[string]struct {
		setup  func(t *testing.T, f *fixture)
		eyes   game.Vec3
		id     game.EntityId
		locale string
		expMsg string
	}{
		"no permission": {
			setup: func(t *testing.T, f *fixture) {
				must(t, f.host.Permissions.RevokeUserPermission(owner, PermissionUse))
			},
			eyes:   turretEyes,
			id:     turretId,
			expMsg: "You do not permissions to use this.",
		},
		"no permission on sam": {
			setup: func(t *testing.T, f *fixture) {
				must(t, f.host.Permissions.RevokeUserPermission(owner, PermissionUse))
			},
			eyes:   samEyes,
			id:     samId,
			expMsg: "You do not permissions to use this.",
		},
		"not on turret list": {
			setup: func(t *testing.T, f *fixture) {
				must(t, f.host.World.Structure(turretId).Deauthorize(owner))
			},
			eyes:   turretEyes,
			id:     turretId,
			expMsg: "You are not authed on this AutoTurret.",
		},
		"not on privilege for turret": {
			setup: func(t *testing.T, f *fixture) {
				f.host.World.BuildingPrivilegeAt(game.Vec3{}).Deauthorize(owner)
			},
			eyes:   turretEyes,
			id:     turretId,
			expMsg: "You do not have building privilege.",
		},
		"not on privilege for sam": {
			setup: func(t *testing.T, f *fixture) {
				f.host.World.BuildingPrivilegeAt(game.Vec3{}).Deauthorize(owner)
			},
			eyes:   samEyes,
			id:     samId,
			expMsg: "You do not have building privilege.",
		},
		"outside every privilege": {
			setup: func(t *testing.T, f *fixture) {
				must(t, f.host.World.AddStructure(game.NewSamSite(500, game.Vec3{X: 100, Y: 1.6, Z: 1.2}, 0.5)))
			},
			eyes:   game.Vec3{X: 100, Y: 1.6},
			id:     500,
			expMsg: "You do not have building privilege.",
		},
		"localized": {
			setup: func(t *testing.T, f *fixture) {
				must(t, f.host.World.Structure(turretId).Deauthorize(owner))
			},
			eyes:   turretEyes,
			id:     turretId,
			locale: "de-DE",
			expMsg: "Du bist an diesem Selbstschussgeschütz nicht autorisiert.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)

			player := f.player
			if tt.locale != "" {
				player = f.host.World.ApplyInput(game.InputFrame{UserId: owner, Locale: tt.locale})
			}
			player.SetView(tt.eyes, game.Vec3{})

			f.press(t, player, game.ButtonFireThird)

			s := f.host.World.Structure(tt.id)
			testutil.AssertEqual(t, "still off", s.IsOnline(), false)
			testutil.AssertEqual(t, "turrets", len(f.plugin.Powered().Ids(game.KindTurret)), 0)
			testutil.AssertEqual(t, "sams", len(f.plugin.Powered().Ids(game.KindSamSite)), 0)
			testutil.AssertEqual(t, "replications", len(f.repl.Updates()), 0)
			testutil.AssertEqual(t, "messages", f.chat.Lines(), []plugintest.ChatLine{
				{To: owner, Msg: tt.expMsg},
			})
		})
	}
}

func TestToggle_DeniedWhileOn(t *testing.T) {
	f := newFixture(t)
	f.press(t, f.player, game.ButtonFireThird)
	testutil.AssertEqual(t, "on", f.host.World.Structure(turretId).IsOnline(), true)

	must(t, f.host.Permissions.RevokeUserPermission(owner, PermissionUse))
	f.press(t, f.player, game.ButtonFireThird)

	testutil.AssertEqual(t, "still on", f.host.World.Structure(turretId).IsOnline(), true)
	testutil.AssertEqual(t, "still recorded", f.plugin.Powered().Ids(game.KindTurret), []game.EntityId{turretId})
	testutil.AssertEqual(t, "one denial", len(f.chat.Lines()), 1)
}

func TestToggle_SilentNoOps(t *testing.T) {
	tests := map[string]struct {
		eyes  game.Vec3
		aim   game.Vec3
		input game.InputState
	}{
		"looking away": {
			eyes:  turretEyes,
			aim:   game.Vec3{Y: 180},
			input: game.InputState{Current: game.ButtonFireThird},
		},
		"looking up": {
			eyes:  turretEyes,
			aim:   game.Vec3{X: -90},
			input: game.InputState{Current: game.ButtonFireThird},
		},
		"out of reach": {
			eyes:  farEyes,
			input: game.InputState{Current: game.ButtonFireThird},
		},
		"unmanaged structure": {
			eyes:  crateEyes,
			input: game.InputState{Current: game.ButtonFireThird},
		},
		"button held": {
			eyes:  turretEyes,
			input: game.InputState{Current: game.ButtonFireThird, Previous: game.ButtonFireThird},
		},
		"other button": {
			eyes:  turretEyes,
			input: game.InputState{Current: game.ButtonUse},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.player.SetView(tt.eyes, tt.aim)

			err := f.plugin.onPlayerInput(t.Context(), inputEvent(f.player, tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, kind := range managedKinds {
				for _, s := range f.host.World.Structures(kind) {
					testutil.AssertEqual(t, "offline", s.IsOnline(), false)
				}
			}
			testutil.AssertEqual(t, "messages", len(f.chat.Lines()), 0)
			testutil.AssertEqual(t, "replications", len(f.repl.Updates()), 0)
		})
	}
}

func TestToggle_ConfiguredButton(t *testing.T) {
	host, chat, repl := plugintest.NewHost(t)
	newWorld(t, host)
	writeFile(t, host.ConfigPath(fileName), `{"Settings":{"Default Power Button":"USE"}}`)

	f := initFixture(t, host, chat, repl)

	f.press(t, f.player, game.ButtonFireThird)
	testutil.AssertEqual(t, "ignored", f.host.World.Structure(turretId).IsOnline(), false)

	f.press(t, f.player, game.ButtonUse)
	testutil.AssertEqual(t, "toggled", f.host.World.Structure(turretId).IsOnline(), true)
}

func TestToggle_ChatFormat(t *testing.T) {
	host, chat, repl := plugintest.NewHost(t)
	newWorld(t, host)
	writeFile(t, host.ConfigPath(fileName), `{"Settings":{"Chat Format":"[No Power] {{ .Player }}: {{ .Message | lower }}"}}`)

	f := initFixture(t, host, chat, repl)
	must(t, f.host.Permissions.RevokeUserPermission(owner, PermissionUse))

	f.press(t, f.player, game.ButtonFireThird)
	testutil.AssertEqual(t, "messages", f.chat.Lines(), []plugintest.ChatLine{
		{To: owner, Msg: "[No Power] alice: you do not permissions to use this."},
	})
}

func TestToggle_NoPermissionBeforeProbe(t *testing.T) {
	tests := map[string]struct {
		eyes    game.Vec3
		aim     game.Vec3
		input   game.InputState
		expMsgs int
	}{
		"looking away": {
			eyes:    turretEyes,
			aim:     game.Vec3{Y: 180},
			input:   game.InputState{Current: game.ButtonFireThird},
			expMsgs: 1,
		},
		"out of reach": {
			eyes:    farEyes,
			input:   game.InputState{Current: game.ButtonFireThird},
			expMsgs: 1,
		},
		"unmanaged structure": {
			eyes:    crateEyes,
			input:   game.InputState{Current: game.ButtonFireThird},
			expMsgs: 1,
		},
		"button held": {
			eyes:  turretEyes,
			input: game.InputState{Current: game.ButtonFireThird, Previous: game.ButtonFireThird},
		},
		"other button": {
			eyes:  turretEyes,
			input: game.InputState{Current: game.ButtonUse},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			must(t, f.host.Permissions.RevokeUserPermission(owner, PermissionUse))
			f.player.SetView(tt.eyes, tt.aim)

			err := f.plugin.onPlayerInput(t.Context(), inputEvent(f.player, tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			lines := f.chat.Lines()
			testutil.AssertEqual(t, "messages", len(lines), tt.expMsgs)
			if tt.expMsgs > 0 {
				testutil.AssertEqual(t, "message", lines[0].Msg, "You do not permissions to use this.")
			}
			testutil.AssertEqual(t, "replications", len(f.repl.Updates()), 0)
		})
	}
}
