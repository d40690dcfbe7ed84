// Package collection loads Sokoban level collections: plain text files in
// the common symbol notation, one or more levels per file, optionally
// zstd-compressed. A small set of built-in collections is embedded so the
// server always has something to play.
package collection

import "fmt"

// Collection is a named, ordered list of levels. It satisfies the engine's
// Collection interface; levels hand out their raw symbol rows and the engine
// does its own validation on load.
type Collection struct {
	id     string
	name   string
	levels [][]string
}

// New builds a collection from already-split levels.
func New(id, name string, levels [][]string) *Collection {
	return &Collection{id: id, name: name, levels: levels}
}

// Parse builds a collection from raw file text. A "Title:" header inside the
// text overrides the fallback name.
func Parse(id, fallbackName string, data []byte) (*Collection, error) {
	levels, title, err := parseText(data)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", id, err)
	}
	name := title
	if name == "" {
		name = fallbackName
	}
	return &Collection{id: id, name: name, levels: levels}, nil
}

// ID returns the collection's identifier, the filename without extensions
// for file-backed collections.
func (c *Collection) ID() string { return c.id }

// Name returns the display name.
func (c *Collection) Name() string { return c.name }

// LevelCount returns the number of levels.
func (c *Collection) LevelCount() int { return len(c.levels) }

// Level returns the symbol rows of level n.
func (c *Collection) Level(n int) ([]string, error) {
	if n < 0 || n >= len(c.levels) {
		return nil, fmt.Errorf("collection %q has no level %d", c.id, n)
	}
	return c.levels[n], nil
}
