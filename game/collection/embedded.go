package collection

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed levels/*.xsb
var builtinFS embed.FS

// loadBuiltins parses the embedded collections, keyed by id. These ship with
// the binary and are always available, whatever the levels directory holds.
func loadBuiltins() (map[string]*Collection, error) {
	entries, err := builtinFS.ReadDir("levels")
	if err != nil {
		return nil, fmt.Errorf("reading embedded levels: %w", err)
	}

	builtins := make(map[string]*Collection, len(entries))
	for _, entry := range entries {
		data, err := builtinFS.ReadFile(path.Join("levels", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading embedded %s: %w", entry.Name(), err)
		}
		id := strings.TrimSuffix(entry.Name(), ".xsb")
		c, err := Parse(id, id, data)
		if err != nil {
			return nil, fmt.Errorf("embedded %s: %w", entry.Name(), err)
		}
		builtins[id] = c
	}
	return builtins, nil
}

// builtinIDs returns the embedded collection ids in sorted order.
func builtinIDs(builtins map[string]*Collection) []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
