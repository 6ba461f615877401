package game

import "errors"

var (
	ErrNotTurret       = errors.New("structure is not a turret")
	ErrNotSamSite      = errors.New("structure is not a sam site")
	ErrDuplicateEntity = errors.New("entity id already in use")
	ErrUnknownButton   = errors.New("unknown button")
)
