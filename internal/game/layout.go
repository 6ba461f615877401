package game

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

const DefaultStructureRadius = 0.6

// Layout describes the initial contents of a world.
type Layout struct {
	Structures []StructureSpec `yaml:"structures"`
	Privileges []PrivilegeSpec `yaml:"privileges"`
	Players    []PlayerSpec    `yaml:"players"`
}

type StructureSpec struct {
	Id         EntityId      `yaml:"id"`
	Kind       StructureKind `yaml:"kind"`
	Position   Vec3          `yaml:"position"`
	Radius     float64       `yaml:"radius"`
	Authorized []UserId      `yaml:"authorized"`
	Online     bool          `yaml:"online"`
	Power      int           `yaml:"power"`
}

type PrivilegeSpec struct {
	Id         EntityId `yaml:"id"`
	Center     Vec3     `yaml:"center"`
	Radius     float64  `yaml:"radius"`
	Authorized []UserId `yaml:"authorized"`
}

type PlayerSpec struct {
	Id     UserId `yaml:"id"`
	Name   string `yaml:"name"`
	Locale string `yaml:"locale"`
	Eyes   Vec3   `yaml:"eyes"`
	Aim    Vec3   `yaml:"aim"`
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return ParseLayout(raw)
}

func ParseLayout(raw []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Layout) Validate() error {
	el := errors.NewErrorList()

	for i, s := range l.Structures {
		if s.Id == 0 {
			el.Add(fmt.Errorf("structure %d: id is required", i))
		}
		if s.Radius < 0 {
			el.Add(fmt.Errorf("structure %d: radius must not be negative", i))
		}
		if s.Kind != KindSamSite && s.Power != 0 {
			el.Add(fmt.Errorf("structure %d: power only applies to sam sites", i))
		}
		if s.Kind != KindTurret && (s.Online || len(s.Authorized) > 0) {
			el.Add(fmt.Errorf("structure %d: online and authorized only apply to turrets", i))
		}
	}
	for i, p := range l.Privileges {
		if p.Id == 0 {
			el.Add(fmt.Errorf("privilege %d: id is required", i))
		}
		if p.Radius <= 0 {
			el.Add(fmt.Errorf("privilege %d: radius must be positive", i))
		}
	}
	for i, p := range l.Players {
		if p.Id == 0 {
			el.Add(fmt.Errorf("player %d: id is required", i))
		}
	}

	return el.Err()
}

// Build creates a world populated from the layout.
func (l *Layout) Build() (*WorldState, error) {
	w := NewWorldState()

	for _, spec := range l.Structures {
		radius := spec.Radius
		if radius == 0 {
			radius = DefaultStructureRadius
		}

		var s *Structure
		switch spec.Kind {
		case KindTurret:
			s = NewTurret(spec.Id, spec.Position, radius, spec.Authorized...)
			if err := s.SetOnline(spec.Online); err != nil {
				return nil, err
			}
		case KindSamSite:
			s = NewSamSite(spec.Id, spec.Position, radius)
			if err := s.UpdateHasPower(spec.Power); err != nil {
				return nil, err
			}
		default:
			s = NewDeployable(spec.Id, spec.Position, radius)
		}

		if err := w.AddStructure(s); err != nil {
			return nil, err
		}
	}

	for _, spec := range l.Privileges {
		b := NewBuildingPrivilege(spec.Id, spec.Center, spec.Radius, spec.Authorized...)
		if err := w.AddBuildingPrivilege(b); err != nil {
			return nil, err
		}
	}

	for _, spec := range l.Players {
		p := NewPlayer(spec.Id, spec.Name, spec.Locale)
		p.SetView(spec.Eyes, spec.Aim)
		if err := w.AddPlayer(p); err != nil {
			return nil, err
		}
	}

	return w, nil
}
