package service

import (
	"context"
	"errors"
	"time"

	"github.com/KDE/skladnik/game/engine"
)

var (
	// ErrLevelLocked is returned by NextLevel when the current level has
	// not been completed yet.
	ErrLevelLocked = errors.New("level not completed")

	// ErrBookmarkNotFound is returned when a bookmark slot is empty.
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrNoProgressStore is returned by progress and bookmark operations
	// when the service was built without a store.
	ErrNoProgressStore = errors.New("progress store not configured")

	// ErrInvalidInput marks errors caused by bad request parameters, so
	// transports can tell them apart from internal failures.
	ErrInvalidInput = errors.New("invalid input")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, collectionID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction, mode string) (*MoveResult, error)
	Walk(ctx context.Context, sessionID string, x, y int) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	Redo(ctx context.Context, sessionID string) (*MoveResult, error)
	Advance(ctx context.Context, sessionID string) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*GameState, error)

	// Level Navigation
	SetLevel(ctx context.Context, sessionID string, level int) (*GameState, error)
	NextLevel(ctx context.Context, sessionID string) (*GameState, error)
	PreviousLevel(ctx context.Context, sessionID string) (*GameState, error)
	ChangeCollection(ctx context.Context, sessionID, collectionID string) (*GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameState, error)
	GetHistory(ctx context.Context, sessionID string) (*HistoryResponse, error)
	GetProgress(ctx context.Context, sessionID string) (*ProgressInfo, error)

	// Bookmarks
	SetBookmark(ctx context.Context, sessionID string, slot int) (*BookmarkInfo, error)
	GoToBookmark(ctx context.Context, sessionID string, slot int) (*GameState, error)
	ListBookmarks(ctx context.Context) ([]*BookmarkInfo, error)

	// Collections
	ListCollections(ctx context.Context) ([]*CollectionInfo, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, col engine.Collection) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, col engine.Collection) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// CollectionManager handles level collection loading
type CollectionManager interface {
	LoadCollection(id string) (engine.Collection, error)
	ListCollections() ([]*CollectionInfo, error)
	GetDefault() engine.Collection
}

// ProgressStore records completed levels and bookmark slots
type ProgressStore interface {
	RecordCompletion(collection string, level, moves, pushes int) error
	LevelCompleted(collection string, level int) (bool, error)
	CollectionProgress(collection string, levelCount int) ([]*LevelProgress, error)
	SaveBookmark(slot int, bm engine.Bookmark) error
	LoadBookmark(slot int) (engine.Bookmark, time.Time, error)
	ListBookmarks() ([]*BookmarkInfo, error)
	Close() error
}

// Session represents an active game session
type Session struct {
	ID             string
	Game           *engine.Game
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
