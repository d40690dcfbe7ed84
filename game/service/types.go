package service

import "time"

// Move modes accepted by GameService.Move. ModePush is the plain arrow-key
// move: one cell, pushing an object if one stands in the way. ModeStep runs
// to the first obstacle without pushing anything, ModePushRun keeps pushing
// until the run is blocked.
const (
	ModePush    = "push"
	ModeStep    = "step"
	ModePushRun = "pushrun"
)

// MaxBookmarkSlots is the number of bookmark slots available.
const MaxBookmarkSlots = 10

// SessionInfo provides session metadata for API responses
type SessionInfo struct {
	ID             string    `json:"id"`
	Collection     string    `json:"collection"`
	CollectionName string    `json:"collection_name"`
	Level          int       `json:"level"`
	Moves          int       `json:"moves"`
	Pushes         int       `json:"pushes"`
	Completed      bool      `json:"completed"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// GameState is the transport-facing snapshot of a session's board.
// Board rows use the level text notation: '#' wall, '$' object, '.' target,
// '*' object on target, '@' token, '+' token on target.
type GameState struct {
	Collection     string   `json:"collection"`
	CollectionName string   `json:"collection_name"`
	Level          int      `json:"level"`
	LevelCount     int      `json:"level_count"`
	Board          []string `json:"board,omitempty"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	TokenX         int      `json:"token_x"`
	TokenY         int      `json:"token_y"`
	ObjectsLeft    int      `json:"objects_left"`
	Moves          int      `json:"moves"`
	Pushes         int      `json:"pushes"`
	Completed      bool     `json:"completed"`
	Playing        bool     `json:"playing"`
	CanUndo        bool     `json:"can_undo"`
	CanRedo        bool     `json:"can_redo"`
	Broken         bool     `json:"broken,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// MoveResult describes the outcome of a walk, move, undo, redo or advance
// request. Committed is false when the request was legal but nothing could
// happen (blocked move, empty history, playback still running); Reason says
// why.
type MoveResult struct {
	Committed bool       `json:"committed"`
	Reason    string     `json:"reason,omitempty"`
	GameState *GameState `json:"game_state"`
}

// HistoryResponse carries the move history of a session in the text encoding
// produced by the engine (lowercase steps, uppercase pushes, '*' after each
// move, '@' between done and undone moves).
type HistoryResponse struct {
	Moves    int    `json:"moves"`
	Redoable int    `json:"redoable"`
	Stream   string `json:"stream"`
}

// CollectionInfo describes an available level collection
type CollectionInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Levels int    `json:"levels"`
	Source string `json:"source"`
}

// LevelProgress is the stored result for a single level of a collection
type LevelProgress struct {
	Level      int  `json:"level"`
	Completed  bool `json:"completed"`
	BestMoves  int  `json:"best_moves,omitempty"`
	BestPushes int  `json:"best_pushes,omitempty"`
}

// ProgressInfo reports per-level completion for a whole collection
type ProgressInfo struct {
	Collection string           `json:"collection"`
	Levels     []*LevelProgress `json:"levels"`
}

// BookmarkInfo describes a stored bookmark slot
type BookmarkInfo struct {
	Slot       int       `json:"slot"`
	Collection string    `json:"collection"`
	Level      int       `json:"level"`
	Moves      int       `json:"moves"`
	SavedAt    time.Time `json:"saved_at"`
}
