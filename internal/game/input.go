package game

import (
	"fmt"
	"strings"
)

// Button is a bit flag for one player input button.
type Button uint32

const (
	ButtonForward Button = 1 << (iota + 1)
	ButtonBackward
	ButtonLeft
	ButtonRight
	ButtonJump
	ButtonDuck
	ButtonSprint
	ButtonUse
	ButtonFirePrimary
	ButtonFireSecondary
	ButtonReload
	ButtonFireThird
)

var buttonNames = []struct {
	name   string
	button Button
}{
	{"FORWARD", ButtonForward},
	{"BACKWARD", ButtonBackward},
	{"LEFT", ButtonLeft},
	{"RIGHT", ButtonRight},
	{"JUMP", ButtonJump},
	{"DUCK", ButtonDuck},
	{"SPRINT", ButtonSprint},
	{"USE", ButtonUse},
	{"FIRE_PRIMARY", ButtonFirePrimary},
	{"FIRE_SECONDARY", ButtonFireSecondary},
	{"RELOAD", ButtonReload},
	{"FIRE_THIRD", ButtonFireThird},
}

// ParseButton resolves a single button name, ignoring case.
func ParseButton(name string) (Button, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, bn := range buttonNames {
		if bn.name == upper {
			return bn.button, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownButton, name)
}

func (b Button) String() string {
	var names []string
	for _, bn := range buttonNames {
		if b&bn.button != 0 {
			names = append(names, bn.name)
		}
	}
	return strings.Join(names, "|")
}

func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText accepts a single button name or several joined with '|'.
func (b *Button) UnmarshalText(text []byte) error {
	var out Button
	for _, part := range strings.Split(string(text), "|") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		btn, err := ParseButton(part)
		if err != nil {
			return err
		}
		out |= btn
	}
	*b = out
	return nil
}

// InputState is the button state of one player for the current tick compared
// against the previous tick. Pressed holds buttons that went down at any point
// since the last tick, so a click shorter than a tick is not lost.
type InputState struct {
	Current  Button
	Previous Button
	Pressed  Button
}

// WasJustPressed reports whether b went from released to pressed this tick.
func (s InputState) WasJustPressed(b Button) bool {
	return s.Pressed&b != 0 || (s.Current&b != 0 && s.Previous&b == 0)
}
