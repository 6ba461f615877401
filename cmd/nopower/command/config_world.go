package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-nopower/internal/game"
)

type WorldConfig struct {
	LayoutPath string `json:"layout_path"`
}

func (c *WorldConfig) validate() error {
	if c.LayoutPath == "" {
		return nil
	}
	_, err := os.Stat(c.LayoutPath)
	if err != nil {
		return fmt.Errorf("world: invalid layout_path %q: %w", c.LayoutPath, err)
	}
	return nil
}

// BuildWorld loads the configured layout, or returns an empty world when no
// layout is set.
func (c *WorldConfig) BuildWorld() (*game.WorldState, error) {
	if c.LayoutPath == "" {
		return game.NewWorldState(), nil
	}

	layout, err := game.LoadLayout(c.LayoutPath)
	if err != nil {
		return nil, err
	}
	return layout.Build()
}
