package game

import (
	"fmt"
	"math"
	"slices"
	"sync"
)

// WorldState is the registry of everything the server simulates. Structures
// and privileges are keyed by entity id; players by user id.
// All access must go through its methods to ensure thread-safety.
type WorldState struct {
	mu         sync.RWMutex
	structures map[EntityId]*Structure
	privileges map[EntityId]*BuildingPrivilege
	players    map[UserId]*Player
}

func NewWorldState() *WorldState {
	return &WorldState{
		structures: make(map[EntityId]*Structure),
		privileges: make(map[EntityId]*BuildingPrivilege),
		players:    make(map[UserId]*Player),
	}
}

// AddStructure places a structure in the world.
func (w *WorldState) AddStructure(s *Structure) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.structures[s.Id]; ok {
		return fmt.Errorf("%w: structure %d", ErrDuplicateEntity, s.Id)
	}
	if _, ok := w.privileges[s.Id]; ok {
		return fmt.Errorf("%w: structure %d", ErrDuplicateEntity, s.Id)
	}
	w.structures[s.Id] = s
	return nil
}

func (w *WorldState) Structure(id EntityId) *Structure {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.structures[id]
}

// Structures lists every structure of the given kind ordered by id.
func (w *WorldState) Structures(kind StructureKind) []*Structure {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []*Structure
	for _, s := range w.structures {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b *Structure) int {
		return compareIds(a.Id, b.Id)
	})
	return out
}

// AddBuildingPrivilege places a privilege zone in the world.
func (w *WorldState) AddBuildingPrivilege(b *BuildingPrivilege) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.privileges[b.Id]; ok {
		return fmt.Errorf("%w: privilege %d", ErrDuplicateEntity, b.Id)
	}
	if _, ok := w.structures[b.Id]; ok {
		return fmt.Errorf("%w: privilege %d", ErrDuplicateEntity, b.Id)
	}
	w.privileges[b.Id] = b
	return nil
}

// BuildingPrivilegeAt returns the privilege zone covering pos. When zones
// overlap the one with the closest center wins. Returns nil if no zone covers pos.
func (w *WorldState) BuildingPrivilegeAt(pos Vec3) *BuildingPrivilege {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var best *BuildingPrivilege
	bestDist := math.Inf(1)
	for _, b := range w.privileges {
		if !b.Covers(pos) {
			continue
		}
		d := b.Center.Distance(pos)
		if d < bestDist || (d == bestDist && best != nil && b.Id < best.Id) {
			best = b
			bestDist = d
		}
	}
	return best
}

// AddPlayer registers a player. Returns ErrDuplicateEntity if already present.
func (w *WorldState) AddPlayer(p *Player) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.players[p.Id]; ok {
		return fmt.Errorf("%w: player %d", ErrDuplicateEntity, p.Id)
	}
	w.players[p.Id] = p
	return nil
}

// Player returns the player state. Returns nil if player not found.
func (w *WorldState) Player(id UserId) *Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.players[id]
}

// Players lists all players ordered by id.
func (w *WorldState) Players() []*Player {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Player) int {
		return compareIds(a.Id, b.Id)
	})
	return out
}

// RemovePlayer drops a disconnected player.
func (w *WorldState) RemovePlayer(id UserId) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.players, id)
}

// ApplyInput records an input frame, creating the player on first contact.
func (w *WorldState) ApplyInput(f InputFrame) *Player {
	w.mu.Lock()
	p, ok := w.players[f.UserId]
	if !ok {
		p = NewPlayer(f.UserId, f.Name, f.Locale)
		w.players[f.UserId] = p
	}
	w.mu.Unlock()

	p.Apply(f)
	return p
}

// Hit is the result of a successful SphereCast.
type Hit struct {
	Structure *Structure
	Distance  float64
}

// SphereCast sweeps a sphere of the given radius from origin along dir and
// returns the first structure it touches. Structures already overlapping the
// sphere at the origin are ignored.
func (w *WorldState) SphereCast(origin Vec3, radius float64, dir Vec3) (Hit, bool) {
	dir = dir.Normalize()
	if dir == (Vec3{}) {
		return Hit{}, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	var best Hit
	found := false
	for _, s := range w.structures {
		t, ok := sweepSphere(origin, radius, dir, s.Position, s.Radius)
		if !ok {
			continue
		}
		if !found || t < best.Distance || (t == best.Distance && s.Id < best.Structure.Id) {
			best = Hit{Structure: s, Distance: t}
			found = true
		}
	}
	return best, found
}

// sweepSphere returns the travel distance at which a sphere moving from origin
// along the unit vector dir first touches the sphere at center.
func sweepSphere(origin Vec3, radius float64, dir Vec3, center Vec3, targetRadius float64) (float64, bool) {
	reach := radius + targetRadius
	m := origin.Sub(center)
	c := m.Dot(m) - reach*reach
	if c <= 0 {
		return 0, false
	}

	b := m.Dot(dir)
	if b > 0 {
		// Starting outside and moving away.
		return 0, false
	}

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	t := -b - math.Sqrt(disc)
	if t < 0 {
		return 0, false
	}
	return t, true
}

func compareIds[T ~uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
