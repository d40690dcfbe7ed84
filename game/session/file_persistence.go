package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KDE/skladnik/game/engine"
	"github.com/KDE/skladnik/game/service"
)

// FilePersistence implements SessionPersistence using file system storage.
// One JSON file per session; the game inside is stored as its bookmark tuple
// and restored by replaying the history text.
type FilePersistence struct {
	sessionsDir string
	collections service.CollectionManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, collections service.CollectionManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir: sessionsDir,
		collections: collections,
	}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	bm, err := engine.MakeBookmark(session.Game)
	if err != nil {
		return fmt.Errorf("failed to snapshot game: %w", err)
	}

	data := PersistedSessionData{
		ID:             session.ID,
		Collection:     bm.Collection,
		Level:          bm.Level,
		Moves:          bm.Moves,
		History:        bm.History,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	filePath := fp.getFilePath(session.ID)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load retrieves a session from a JSON file, rebuilding the game by loading
// the collection and replaying the stored history
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	col, err := fp.collections.LoadCollection(data.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection '%s': %w", data.Collection, err)
	}

	game, err := engine.NewGame(col)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	bm := engine.Bookmark{
		Collection: data.Collection,
		Level:      data.Level,
		Moves:      data.Moves,
		History:    data.History,
	}
	if err := game.GoToBookmark(bm); err != nil {
		return nil, fmt.Errorf("failed to replay session state: %w", err)
	}

	session := &service.Session{
		ID:             data.ID,
		Game:           game,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}

	return session, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			sessionIDs = append(sessionIDs, strings.TrimSuffix(name, ".json"))
		}
	}

	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// getFilePath returns the full file path for a session ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", id))
}
