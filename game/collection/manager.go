package collection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/KDE/skladnik/game/engine"
	"github.com/KDE/skladnik/game/service"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidCollection  = errors.New("invalid collection")
)

// extensions lists the file suffixes tried when resolving a collection id,
// in order. The .zst variants are zstd-compressed packs.
var extensions = []string{".xsb", ".sok", ".xsb.zst", ".sok.zst"}

// Manager resolves collection ids to loaded collections: the embedded
// built-ins plus files from a levels directory, cached after first load.
// Built-ins win over files with the same id.
type Manager struct {
	levelsDir  string
	builtins   map[string]*Collection
	cache      map[string]*Collection
	defaultCol *Collection
	mu         sync.RWMutex
}

// NewManager creates a manager over levelsDir. An empty levelsDir serves the
// built-in collections only.
func NewManager(levelsDir string) (*Manager, error) {
	if levelsDir != "" {
		if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
		}
	}

	builtins, err := loadBuiltins()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		levelsDir: levelsDir,
		builtins:  builtins,
		cache:     make(map[string]*Collection),
	}
	m.defaultCol = m.pickDefault()
	return m, nil
}

// pickDefault prefers the starter collection, then the first built-in.
func (m *Manager) pickDefault() *Collection {
	if c, ok := m.builtins["starter"]; ok {
		return c
	}
	ids := builtinIDs(m.builtins)
	if len(ids) == 0 {
		return nil
	}
	return m.builtins[ids[0]]
}

// LoadCollection resolves id to a collection, loading and caching it on
// first use.
func (m *Manager) LoadCollection(id string) (engine.Collection, error) {
	c, err := m.load(id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Manager) load(id string) (*Collection, error) {
	m.mu.RLock()
	if c, ok := m.builtins[id]; ok {
		m.mu.RUnlock()
		return c, nil
	}
	if c, ok := m.cache[id]; ok {
		m.mu.RUnlock()
		return c, nil
	}
	m.mu.RUnlock()

	if m.levelsDir == "" {
		return nil, ErrCollectionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if c, ok := m.cache[id]; ok {
		return c, nil
	}

	data, err := m.readCollectionFile(id)
	if err != nil {
		return nil, err
	}
	c, err := Parse(id, id, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}

	m.cache[id] = c
	return c, nil
}

// readCollectionFile finds id under the levels directory, trying each known
// extension, and returns the decompressed file contents.
func (m *Manager) readCollectionFile(id string) ([]byte, error) {
	for _, ext := range extensions {
		path := filepath.Join(m.levelsDir, id+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading collection file: %w", err)
		}
		if strings.HasSuffix(path, ".zst") {
			return decompress(data, path)
		}
		return data, nil
	}
	return nil, ErrCollectionNotFound
}

func decompress(data []byte, path string) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

// collectionID strips a known extension from a filename, reporting whether
// it looked like a collection file at all.
func collectionID(filename string) (string, bool) {
	for _, ext := range extensions {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext), true
		}
	}
	return "", false
}

// ListCollections returns information about every available collection:
// built-ins first, then the levels directory. Files that fail to parse are
// skipped rather than failing the listing.
func (m *Manager) ListCollections() ([]*service.CollectionInfo, error) {
	var infos []*service.CollectionInfo

	m.mu.RLock()
	for _, id := range builtinIDs(m.builtins) {
		c := m.builtins[id]
		infos = append(infos, &service.CollectionInfo{
			ID:     c.ID(),
			Name:   c.Name(),
			Levels: c.LevelCount(),
			Source: "built-in",
		})
	}
	m.mu.RUnlock()

	if m.levelsDir == "" {
		return infos, nil
	}

	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("reading levels directory: %w", err)
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := collectionID(entry.Name())
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		if _, shadowed := m.builtins[id]; shadowed {
			continue
		}

		c, err := m.LoadCollection(id)
		if err != nil {
			// Skip unreadable or invalid collections.
			continue
		}
		infos = append(infos, &service.CollectionInfo{
			ID:     c.ID(),
			Name:   c.Name(),
			Levels: c.LevelCount(),
			Source: "file",
		})
	}

	return infos, nil
}

// GetDefault returns the default collection.
func (m *Manager) GetDefault() engine.Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultCol
}

// SetDefault switches the default collection by id.
func (m *Manager) SetDefault(id string) error {
	c, err := m.load(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultCol = c
	return nil
}

// RefreshCache drops every file-backed collection from the cache so the next
// load rereads the directory.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]*Collection)
}
