package nopower

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/storage"
	"github.com/pixil98/go-testutil"
)

func TestPoweredData_Idempotent(t *testing.T) {
	d := NewPoweredData()

	d.Add(game.KindTurret, 5)
	d.Add(game.KindTurret, 5)
	testutil.AssertEqual(t, "added twice", d.Ids(game.KindTurret), []game.EntityId{5})

	d.Remove(game.KindTurret, 9)
	testutil.AssertEqual(t, "remove absent", d.Ids(game.KindTurret), []game.EntityId{5})

	d.Remove(game.KindTurret, 5)
	d.Remove(game.KindTurret, 5)
	testutil.AssertEqual(t, "removed", d.Ids(game.KindTurret), []game.EntityId{})
}

func TestPoweredData_KindsAreSeparate(t *testing.T) {
	d := NewPoweredData()
	d.Add(game.KindTurret, 1)
	d.Add(game.KindSamSite, 2)
	d.Add(game.KindOther, 3)

	testutil.AssertEqual(t, "turret has 1", d.Contains(game.KindTurret, 1), true)
	testutil.AssertEqual(t, "sam lacks 1", d.Contains(game.KindSamSite, 1), false)
	testutil.AssertEqual(t, "sam has 2", d.Contains(game.KindSamSite, 2), true)
	testutil.AssertEqual(t, "other ignored", d.Contains(game.KindOther, 3), false)
	testutil.AssertEqual(t, "other ids", len(d.Ids(game.KindOther)), 0)
}

func TestPoweredData_JSON(t *testing.T) {
	d := NewPoweredData()
	d.Add(game.KindTurret, 30)
	d.Add(game.KindTurret, 10)
	d.Add(game.KindSamSite, 20)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "json", string(b), `{"poweredTurretIds":[10,30],"poweredSamIds":[20]}`)

	empty, err := json.Marshal(NewPoweredData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "empty json", string(empty), `{"poweredTurretIds":[],"poweredSamIds":[]}`)
}

func TestPoweredData_SaveLoadRoundTrip(t *testing.T) {
	f := storage.NewDataFile(t.TempDir(), fileName)

	d := NewPoweredData()
	d.Add(game.KindTurret, 76)
	d.Add(game.KindTurret, 12)
	d.Add(game.KindSamSite, 4)
	if err := f.WriteObject(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := loadPoweredData(t.Context(), f)
	if err := f.WriteObject(loaded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := loadPoweredData(t.Context(), f)

	testutil.AssertEqual(t, "turrets", again.Ids(game.KindTurret), []game.EntityId{12, 76})
	testutil.AssertEqual(t, "sams", again.Ids(game.KindSamSite), []game.EntityId{4})
}

func TestLoadPoweredData_Fallbacks(t *testing.T) {
	tests := map[string]struct {
		content *string
	}{
		"missing file": {},
		"corrupt":      {content: ptr("{not json")},
		"wrong types":  {content: ptr(`{"poweredTurretIds":"abc"}`)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := storage.NewDataFile(t.TempDir(), fileName)
			if tt.content != nil {
				writeFile(t, f.Path(), *tt.content)
			}

			d := loadPoweredData(t.Context(), f)
			testutil.AssertEqual(t, "turrets", len(d.Ids(game.KindTurret)), 0)
			testutil.AssertEqual(t, "sams", len(d.Ids(game.KindSamSite)), 0)

			d.Add(game.KindTurret, 1)
			testutil.AssertEqual(t, "usable", d.Contains(game.KindTurret, 1), true)
		})
	}
}
