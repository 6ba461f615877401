package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"golang.org/x/text/language"
)

type Config struct {
	TickInterval  string           `json:"tick_interval"`
	SaveInterval  string           `json:"save_interval"`
	DefaultLocale string           `json:"default_locale"`
	Listeners     []ListenerConfig `json:"listeners"`
	Storage       StorageConfig    `json:"storage"`
	Nats          NatsConfig       `json:"nats"`
	World         WorldConfig      `json:"world"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("tick_interval must be positive"))
		}
	}

	if c.SaveInterval != "" {
		d, err := time.ParseDuration(c.SaveInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing save_interval: %w", err))
		} else if d < 0 {
			el.Add(fmt.Errorf("save_interval must not be negative"))
		}
	}

	if c.DefaultLocale != "" {
		_, err := language.Parse(c.DefaultLocale)
		if err != nil {
			el.Add(fmt.Errorf("parsing default_locale: %w", err))
		}
	}

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.World.validate())

	return el.Err()
}

// fallbackLocale is the language used when a player's locale has no catalog.
func (c *Config) fallbackLocale() language.Tag {
	if c.DefaultLocale == "" {
		return language.English
	}
	tag, err := language.Parse(c.DefaultLocale)
	if err != nil {
		return language.English
	}
	return tag
}

func (c *Config) tickInterval() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

func (c *Config) saveInterval() (time.Duration, bool) {
	if c.SaveInterval == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.SaveInterval)
	if err != nil {
		return 0, false
	}
	return d, true
}
