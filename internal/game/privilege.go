package game

import "sync"

// BuildingPrivilege is a tool cupboard zone. Players on its list may build and
// operate structures inside its radius.
type BuildingPrivilege struct {
	Id     EntityId
	Center Vec3
	Radius float64

	mu         sync.Mutex
	authorized UserSet
}

func NewBuildingPrivilege(id EntityId, center Vec3, radius float64, authorized ...UserId) *BuildingPrivilege {
	return &BuildingPrivilege{
		Id:         id,
		Center:     center,
		Radius:     radius,
		authorized: NewUserSet(authorized...),
	}
}

// Covers reports whether pos lies inside the zone.
func (b *BuildingPrivilege) Covers(pos Vec3) bool {
	return b.Center.Distance(pos) <= b.Radius
}

func (b *BuildingPrivilege) IsAuthorized(u UserId) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authorized.Has(u)
}

func (b *BuildingPrivilege) Authorize(u UserId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authorized.Put(u)
}

func (b *BuildingPrivilege) Deauthorize(u UserId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authorized.Remove(u)
}
