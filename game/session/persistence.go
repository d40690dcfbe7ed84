package session

import (
	"time"

	"github.com/KDE/skladnik/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON structure for persisted sessions. The game
// itself is stored as the bookmark tuple: collection, level, move count and
// history text. Loading rebuilds the game and replays the history.
type PersistedSessionData struct {
	ID             string    `json:"id"`
	Collection     string    `json:"collection"`
	Level          int       `json:"level"`
	Moves          int       `json:"moves"`
	History        string    `json:"history"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}
