package nopower

import "github.com/pixil98/go-nopower/internal/game"

// Denial is the reason a player may not toggle a structure.
type Denial int

const (
	Authorized Denial = iota
	DenyNoPermission
	DenyNotAuthed
	DenyNoBuildPrivilege
)

// MessageKey returns the localization key shown to the player.
func (d Denial) MessageKey() string {
	switch d {
	case DenyNoPermission:
		return "NoPermissions"
	case DenyNotAuthed:
		return "NotAuthed"
	case DenyNoBuildPrivilege:
		return "NoBuildPrivilege"
	default:
		return ""
	}
}

func (d Denial) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case DenyNoPermission:
		return "no permission"
	case DenyNotAuthed:
		return "not authed"
	case DenyNoBuildPrivilege:
		return "no build privilege"
	default:
		return "unknown"
	}
}

// authorize decides whether a player holding the permission may toggle s.
// Turrets need the player on their own list as well as on the covering
// building privilege; SAM sites only need the privilege. A structure outside
// every privilege zone is never authorized.
func (p *Plugin) authorize(player *game.Player, s *game.Structure) Denial {
	if s.Kind == game.KindTurret && !s.IsAuthed(player.Id) {
		return DenyNotAuthed
	}

	if !hasBuildingPrivilege(p.host.World, player.Id, s) {
		return DenyNoBuildPrivilege
	}

	return Authorized
}

func hasBuildingPrivilege(w *game.WorldState, u game.UserId, s *game.Structure) bool {
	priv := w.BuildingPrivilegeAt(s.Position)
	return priv != nil && priv.IsAuthorized(u)
}
