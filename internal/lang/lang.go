// Package lang serves per plugin gettext catalogs, picking the best match for a
// player's locale.
package lang

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

var ErrNoCatalogs = errors.New("no message catalogs found")

type catalog struct {
	tags    []language.Tag
	pos     []*gotext.Po
	matcher language.Matcher
}

// Localizer resolves message keys for plugins.
type Localizer struct {
	fallback language.Tag

	mu       sync.RWMutex
	catalogs map[string]*catalog
}

// New creates a localizer that prefers fallback when a player's locale has no
// catalog.
func New(fallback language.Tag) *Localizer {
	return &Localizer{
		fallback: fallback,
		catalogs: map[string]*catalog{},
	}
}

// RegisterMessages loads every <tag>.po file at the root of fsys as the
// catalogs of a plugin, replacing any earlier registration.
func (l *Localizer) RegisterMessages(plugin string, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.po")
	if err != nil {
		return fmt.Errorf("listing catalogs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: %w", plugin, ErrNoCatalogs)
	}

	type entry struct {
		tag language.Tag
		po  *gotext.Po
	}
	var entries []entry
	for _, f := range files {
		tag, err := language.Parse(strings.TrimSuffix(path.Base(f), ".po"))
		if err != nil {
			return fmt.Errorf("catalog %s: %w", f, err)
		}

		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("reading catalog %s: %w", f, err)
		}

		po := gotext.NewPo()
		po.Parse(data)
		entries = append(entries, entry{tag: tag, po: po})
	}

	// The fallback language goes first so the matcher defaults to it.
	fallback := l.fallback.String()
	slices.SortStableFunc(entries, func(a, b entry) int {
		aFallback := a.tag.String() == fallback
		bFallback := b.tag.String() == fallback
		switch {
		case aFallback && !bFallback:
			return -1
		case bFallback && !aFallback:
			return 1
		default:
			return strings.Compare(a.tag.String(), b.tag.String())
		}
	})

	c := &catalog{}
	for _, e := range entries {
		c.tags = append(c.tags, e.tag)
		c.pos = append(c.pos, e.po)
	}
	c.matcher = language.NewMatcher(c.tags)

	l.mu.Lock()
	l.catalogs[plugin] = c
	l.mu.Unlock()

	return nil
}

// GetMessage returns the translation of key for the given locale. Missing
// translations fall back to the default catalog and finally to the key.
func (l *Localizer) GetMessage(plugin, key, locale string) string {
	l.mu.RLock()
	c, ok := l.catalogs[plugin]
	l.mu.RUnlock()
	if !ok {
		return key
	}

	idx := 0
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			_, idx, _ = c.matcher.Match(tag)
		}
	}

	msg := c.pos[idx].Get(key)
	if msg == key && idx != 0 {
		msg = c.pos[0].Get(key)
	}
	return msg
}

// Languages lists the catalogs registered for a plugin, default first.
func (l *Localizer) Languages(plugin string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.catalogs[plugin]
	if !ok {
		return nil
	}
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}
