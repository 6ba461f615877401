package nopower

import (
	"errors"
	"os"
	"testing"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/plugins"
	"github.com/pixil98/go-nopower/internal/plugins/plugintest"
	"github.com/pixil98/go-nopower/internal/storage"
	"github.com/pixil98/go-testutil"
)

func TestLifecycle_Restore(t *testing.T) {
	host, chat, repl := plugintest.NewHost(t)
	newWorld(t, host)
	writeFile(t, host.DataFile(fileName).Path(), `{"poweredTurretIds":[100,12345],"poweredSamIds":[200]}`)

	f := initFixture(t, host, chat, repl)

	err := f.dispatch(t, plugins.EventServerInitialized)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "turret restored", host.World.Structure(turretId).IsOnline(), true)
	testutil.AssertEqual(t, "sam restored", host.World.Structure(samId).Power(), SamPowerLevel)
	testutil.AssertEqual(t, "unlisted turret", host.World.Structure(farId).IsOnline(), false)
	testutil.AssertEqual(t, "replications", repl.Updates(), []game.Snapshot{
		{Id: turretId, Kind: game.KindTurret, Online: true},
		{Id: samId, Kind: game.KindSamSite, Online: true, Power: SamPowerLevel},
	})
	// Ids of structures that no longer exist are kept.
	testutil.AssertEqual(t, "stale id kept", f.plugin.Powered().Contains(game.KindTurret, 12345), true)
}

func TestLifecycle_RestoreThenToggleOff(t *testing.T) {
	host, chat, repl := plugintest.NewHost(t)
	newWorld(t, host)
	writeFile(t, host.DataFile(fileName).Path(), `{"poweredTurretIds":[100],"poweredSamIds":[]}`)

	f := initFixture(t, host, chat, repl)
	must(t, f.dispatch(t, plugins.EventServerInitialized))

	f.press(t, f.player, game.ButtonFireThird)
	testutil.AssertEqual(t, "off", host.World.Structure(turretId).IsOnline(), false)
	testutil.AssertEqual(t, "forgotten", f.plugin.Powered().Contains(game.KindTurret, turretId), false)
}

func TestLifecycle_Unload(t *testing.T) {
	f := newFixture(t)

	// One structure toggled by a player, one switched on by someone else.
	f.press(t, f.player, game.ButtonFireThird)
	must(t, f.host.World.Structure(samId).UpdateHasPower(7))
	must(t, f.host.World.Structure(farId).SetOnline(true))

	err := f.dispatch(t, plugins.EventUnload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, kind := range managedKinds {
		for _, s := range f.host.World.Structures(kind) {
			testutil.AssertEqual(t, "offline", s.IsOnline(), false)
		}
	}

	var saved PoweredData
	must(t, f.host.DataFile(fileName).ReadObject(&saved))
	testutil.AssertEqual(t, "saved turrets", saved.Ids(game.KindTurret), []game.EntityId{turretId})
	testutil.AssertEqual(t, "saved sams", saved.Ids(game.KindSamSite), []game.EntityId{})
	testutil.AssertEqual(t, "memory kept", f.plugin.Powered().Ids(game.KindTurret), []game.EntityId{turretId})

	// toggle on, then forced off for turret, sam and far turret
	testutil.AssertEqual(t, "replications", len(f.repl.Updates()), 4)
}

func TestLifecycle_UnloadSavesWithNothingOnline(t *testing.T) {
	f := newFixture(t)

	must(t, f.dispatch(t, plugins.EventUnload))

	testutil.AssertEqual(t, "file written", savedFileExists(f), true)
	testutil.AssertEqual(t, "replications", len(f.repl.Updates()), 0)
}

func TestLifecycle_UnloadReplicationFailure(t *testing.T) {
	f := newFixture(t)
	f.press(t, f.player, game.ButtonFireThird)
	f.repl.Err = errors.New("connection closed")

	err := f.dispatch(t, plugins.EventUnload)
	testutil.AssertErrorContains(t, err, "connection closed")

	testutil.AssertEqual(t, "still forced off", f.host.World.Structure(turretId).IsOnline(), false)
	testutil.AssertEqual(t, "still saved", savedFileExists(f), true)
}

func TestLifecycle_ServerSave(t *testing.T) {
	f := newFixture(t)
	f.press(t, f.player, game.ButtonFireThird)

	must(t, f.dispatch(t, plugins.EventServerSave))

	reloaded := loadPoweredData(t.Context(), storage.NewDataFile(f.host.DataDir, fileName))
	testutil.AssertEqual(t, "saved", reloaded.Ids(game.KindTurret), []game.EntityId{turretId})
	testutil.AssertEqual(t, "still online", f.host.World.Structure(turretId).IsOnline(), true)
}

func savedFileExists(f *fixture) bool {
	_, err := os.Stat(f.host.DataFile(fileName).Path())
	return err == nil
}
