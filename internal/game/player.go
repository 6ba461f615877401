package game

import "sync"

// InputFrame is one client input update. A frame with Leave set disconnects
// the player instead.
type InputFrame struct {
	UserId  UserId `json:"user_id"`
	Name    string `json:"name,omitempty"`
	Locale  string `json:"locale,omitempty"`
	Eyes    Vec3   `json:"eyes"`
	Aim     Vec3   `json:"aim"`
	Buttons Button `json:"buttons"`
	Leave   bool   `json:"leave,omitempty"`
}

// Player is a connected player as seen by the server.
type Player struct {
	Id UserId

	mu     sync.Mutex
	name   string
	locale string
	eyes   Vec3
	aim    Vec3
	input  InputState
}

func NewPlayer(id UserId, name, locale string) *Player {
	return &Player{
		Id:     id,
		name:   name,
		locale: locale,
	}
}

func (p *Player) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// Locale returns the player's preferred language tag, empty if unknown.
func (p *Player) Locale() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locale
}

// Eyes returns the world position of the player's eyes.
func (p *Player) Eyes() Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eyes
}

// AimAngles returns the player's view angles in degrees.
func (p *Player) AimAngles() Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.aim
}

// Forward returns the unit direction the player is looking in.
func (p *Player) Forward() Vec3 {
	return AimForward(p.AimAngles())
}

// Input returns the player's button state for this tick.
func (p *Player) Input() InputState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// SetView positions the player's eyes and aim.
func (p *Player) SetView(eyes Vec3, aim Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eyes = eyes
	p.aim = aim
}

// Apply records the latest client frame. Buttons replace the current state and
// any that went down are latched until the next Advance; name and locale only
// change when the frame carries them.
func (p *Player) Apply(f InputFrame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if f.Name != "" {
		p.name = f.Name
	}
	if f.Locale != "" {
		p.locale = f.Locale
	}
	p.eyes = f.Eyes
	p.aim = f.Aim
	p.input.Pressed |= f.Buttons &^ p.input.Current
	p.input.Current = f.Buttons
}

// Advance closes the tick that handled dispatched. Frames applied while the
// tick ran stay visible to the next one.
func (p *Player) Advance(dispatched InputState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input.Previous = dispatched.Current
	p.input.Pressed &^= dispatched.Pressed
}
