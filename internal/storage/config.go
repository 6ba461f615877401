package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// DynamicConfig is a sectioned key/value configuration file. Reading a missing
// key stores the supplied default so the file documents every setting after
// the first run.
type DynamicConfig struct {
	path     string
	sections map[string]map[string]any
	changed  bool

	mu sync.Mutex
}

// NewDynamicConfig returns an empty configuration. An empty path keeps the
// configuration in memory only.
func NewDynamicConfig(path string) *DynamicConfig {
	return &DynamicConfig{
		path:     path,
		sections: map[string]map[string]any{},
	}
}

// LoadDynamicConfig reads the configuration at path. A missing file yields an
// empty configuration.
func LoadDynamicConfig(path string) (*DynamicConfig, error) {
	c := NewDynamicConfig(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &c.sections); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if c.sections == nil {
		c.sections = map[string]map[string]any{}
	}

	return c, nil
}

// Get returns the value stored under section/key, storing def first if the key
// is missing.
func (c *DynamicConfig) Get(section, key string, def any) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sections[section]
	if !ok || s == nil {
		s = map[string]any{}
		c.sections[section] = s
		c.changed = true
	}

	v, ok := s[key]
	if !ok {
		v = def
		s[key] = v
		c.changed = true
	}

	return v
}

// GetString is Get for string settings. Non string values are formatted.
func (c *DynamicConfig) GetString(section, key, def string) string {
	v := c.Get(section, key, def)
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SaveIfChanged writes the configuration only if a default was materialized or
// the file was missing. It reports whether a write happened.
func (c *DynamicConfig) SaveIfChanged() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.changed || c.path == "" {
		return false, nil
	}
	if err := c.save(); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DynamicConfig) save() error {
	if c.path == "" {
		c.changed = false
		return nil
	}

	data, err := json.MarshalIndent(c.sections, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := atomicWrite(c.path, data, 0644); err != nil {
		return err
	}

	c.changed = false
	return nil
}
