package game

import (
	"fmt"
	"sync"

	"github.com/zyedidia/generic/mapset"
)

// EntityId is the host-assigned network id of a world entity. It is stable for
// the lifetime of the entity.
type EntityId uint64

// UserId identifies a player account.
type UserId uint64

type StructureKind int

const (
	KindOther StructureKind = iota
	KindTurret
	KindSamSite
)

func (k StructureKind) String() string {
	switch k {
	case KindTurret:
		return "turret"
	case KindSamSite:
		return "samsite"
	default:
		return "other"
	}
}

func (k StructureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StructureKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "turret", "autoturret":
		*k = KindTurret
	case "samsite", "sam":
		*k = KindSamSite
	case "other", "":
		*k = KindOther
	default:
		return fmt.Errorf("unknown structure kind: %s", text)
	}
	return nil
}

// UserSet is an access list of player ids.
type UserSet = mapset.Set[UserId]

// NewUserSet returns a set holding the given users.
func NewUserSet(users ...UserId) UserSet {
	s := mapset.New[UserId]()
	for _, u := range users {
		s.Put(u)
	}
	return s
}

// Structure is a deployed entity in the world. Turret and Sam hold the variant
// specific state; exactly one of them is set for managed kinds and neither for
// KindOther.
type Structure struct {
	Id       EntityId
	Kind     StructureKind
	Position Vec3
	Radius   float64

	mu     sync.Mutex
	turret *turretState
	sam    *samState
}

type turretState struct {
	online     bool
	authorized UserSet
}

type samState struct {
	power int
}

// NewTurret creates an offline auto turret with its own authorization list.
func NewTurret(id EntityId, pos Vec3, radius float64, authorized ...UserId) *Structure {
	return &Structure{
		Id:       id,
		Kind:     KindTurret,
		Position: pos,
		Radius:   radius,
		turret:   &turretState{authorized: NewUserSet(authorized...)},
	}
}

// NewSamSite creates an unpowered SAM site.
func NewSamSite(id EntityId, pos Vec3, radius float64) *Structure {
	return &Structure{
		Id:       id,
		Kind:     KindSamSite,
		Position: pos,
		Radius:   radius,
		sam:      &samState{},
	}
}

// NewDeployable creates an unmanaged structure that only takes part in hit tests.
func NewDeployable(id EntityId, pos Vec3, radius float64) *Structure {
	return &Structure{
		Id:       id,
		Kind:     KindOther,
		Position: pos,
		Radius:   radius,
	}
}

// IsOnline reports whether a turret is online or a SAM site has power.
func (s *Structure) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.turret != nil:
		return s.turret.online
	case s.sam != nil:
		return s.sam.power > 0
	default:
		return false
	}
}

// SetOnline switches a turret on or off.
func (s *Structure) SetOnline(online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turret == nil {
		return fmt.Errorf("%w: %d is a %s", ErrNotTurret, s.Id, s.Kind)
	}
	s.turret.online = online
	return nil
}

// Power returns the power level of a SAM site, zero for anything else.
func (s *Structure) Power() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sam == nil {
		return 0
	}
	return s.sam.power
}

// UpdateHasPower sets the power level of a SAM site.
func (s *Structure) UpdateHasPower(level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sam == nil {
		return fmt.Errorf("%w: %d is a %s", ErrNotSamSite, s.Id, s.Kind)
	}
	if level < 0 {
		level = 0
	}
	s.sam.power = level
	return nil
}

// IsAuthed reports whether the user is on the turret's own authorization list.
// Non turrets have no list and never authorize anyone.
func (s *Structure) IsAuthed(u UserId) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turret == nil {
		return false
	}
	return s.turret.authorized.Has(u)
}

// Authorize adds a user to the turret's authorization list.
func (s *Structure) Authorize(u UserId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turret == nil {
		return fmt.Errorf("%w: %d is a %s", ErrNotTurret, s.Id, s.Kind)
	}
	s.turret.authorized.Put(u)
	return nil
}

// Deauthorize removes a user from the turret's authorization list.
func (s *Structure) Deauthorize(u UserId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turret == nil {
		return fmt.Errorf("%w: %d is a %s", ErrNotTurret, s.Id, s.Kind)
	}
	s.turret.authorized.Remove(u)
	return nil
}

// Snapshot is the replicated view of a structure.
type Snapshot struct {
	Id     EntityId      `json:"id"`
	Kind   StructureKind `json:"kind"`
	Online bool          `json:"online"`
	Power  int           `json:"power,omitempty"`
}

func (s *Structure) Snapshot() Snapshot {
	return Snapshot{
		Id:     s.Id,
		Kind:   s.Kind,
		Online: s.IsOnline(),
		Power:  s.Power(),
	}
}
