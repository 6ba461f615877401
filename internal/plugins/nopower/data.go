package nopower

import (
	"encoding/json"
	"slices"

	"github.com/pixil98/go-nopower/internal/game"
	"github.com/zyedidia/generic/mapset"
)

// PoweredData is the persisted record of which structures were switched on.
// An id is present iff its structure is powered by this plugin.
type PoweredData struct {
	turrets mapset.Set[game.EntityId]
	sams    mapset.Set[game.EntityId]
}

type poweredDataJSON struct {
	PoweredTurretIds []game.EntityId `json:"poweredTurretIds"`
	PoweredSamIds    []game.EntityId `json:"poweredSamIds"`
}

func NewPoweredData() *PoweredData {
	return &PoweredData{
		turrets: mapset.New[game.EntityId](),
		sams:    mapset.New[game.EntityId](),
	}
}

func (d *PoweredData) set(kind game.StructureKind) (mapset.Set[game.EntityId], bool) {
	switch kind {
	case game.KindTurret:
		return d.turrets, true
	case game.KindSamSite:
		return d.sams, true
	default:
		return mapset.Set[game.EntityId]{}, false
	}
}

// Add records id as powered. Adding a present id is a no-op.
func (d *PoweredData) Add(kind game.StructureKind, id game.EntityId) {
	if s, ok := d.set(kind); ok {
		s.Put(id)
	}
}

// Remove forgets id. Removing an absent id is a no-op.
func (d *PoweredData) Remove(kind game.StructureKind, id game.EntityId) {
	if s, ok := d.set(kind); ok {
		s.Remove(id)
	}
}

func (d *PoweredData) Contains(kind game.StructureKind, id game.EntityId) bool {
	s, ok := d.set(kind)
	return ok && s.Has(id)
}

// Ids returns the powered ids of one kind in ascending order.
func (d *PoweredData) Ids(kind game.StructureKind) []game.EntityId {
	s, ok := d.set(kind)
	if !ok {
		return nil
	}

	ids := make([]game.EntityId, 0, s.Size())
	s.Each(func(id game.EntityId) {
		ids = append(ids, id)
	})
	slices.Sort(ids)
	return ids
}

func (d *PoweredData) MarshalJSON() ([]byte, error) {
	return json.Marshal(poweredDataJSON{
		PoweredTurretIds: d.Ids(game.KindTurret),
		PoweredSamIds:    d.Ids(game.KindSamSite),
	})
}

func (d *PoweredData) UnmarshalJSON(b []byte) error {
	var raw poweredDataJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	turrets := mapset.New[game.EntityId]()
	for _, id := range raw.PoweredTurretIds {
		turrets.Put(id)
	}
	sams := mapset.New[game.EntityId]()
	for _, id := range raw.PoweredSamIds {
		sams.Put(id)
	}

	d.turrets = turrets
	d.sams = sams
	return nil
}
