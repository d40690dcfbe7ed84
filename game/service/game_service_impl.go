package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/KDE/skladnik/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	collections CollectionManager
	progress    ProgressStore
	animate     bool
	mu          sync.RWMutex
}

// NewGameService creates a new game service instance. progress may be nil;
// progress and bookmark operations then report ErrNoProgressStore and level
// gating falls back to the in-session completion flag. When animate is true,
// committing operations return with playback still pending and the caller
// drives it through Advance; otherwise playback resolves before returning.
func NewGameService(sessionManager SessionManager, collectionManager CollectionManager, progress ProgressStore, animate bool) GameService {
	return &gameServiceImpl{
		sessions:    sessionManager,
		collections: collectionManager,
		progress:    progress,
		animate:     animate,
	}
}

// CreateSession creates a new game session on the given collection, or on
// the default collection when collectionID is empty.
func (s *gameServiceImpl) CreateSession(ctx context.Context, collectionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col engine.Collection
	if collectionID == "" {
		col = s.collections.GetDefault()
		if col == nil {
			return nil, fmt.Errorf("no default collection available")
		}
	} else {
		var err error
		col, err = s.collections.LoadCollection(collectionID)
		if err != nil {
			available := "none"
			if list, lerr := s.collections.ListCollections(); lerr == nil && len(list) > 0 {
				ids := make([]string, len(list))
				for i, info := range list {
					ids[i] = info.ID
				}
				available = strings.Join(ids, ", ")
			}
			return nil, fmt.Errorf("failed to load collection '%s': %w (available: %s)", collectionID, err, available)
		}
	}

	sess, err := s.sessions.Create("", col)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session metadata
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return sessionInfo(sess), nil
}

// ListSessions returns metadata for all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Move executes a directional move. Mode selects the arrow-key flavor:
// ModePush moves one cell pushing an object in the way, ModeStep runs to the
// first obstacle without pushing, ModePushRun keeps pushing until blocked.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction, mode string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	dx, dy, ok := engine.DirectionDelta(direction)
	if !ok {
		return nil, fmt.Errorf("%w: direction '%s' (use up, down, left or right)", ErrInvalidInput, direction)
	}
	if mode == "" {
		mode = ModePush
	}
	if mode != ModePush && mode != ModeStep && mode != ModePushRun {
		return nil, fmt.Errorf("%w: mode '%s' (use %s, %s or %s)", ErrInvalidInput, mode, ModePush, ModeStep, ModePushRun)
	}

	g := sess.Game
	if !g.CanMoveNow() {
		return s.blockedResult(sess), nil
	}

	lm := g.LevelMap()
	tx, ty := lm.XPos()+dx, lm.YPos()+dy
	if mode != ModePush {
		// Run modes aim at the board edge; the slide stops at the
		// first obstacle on its own.
		grid := lm.Map()
		tx, ty = lm.XPos(), lm.YPos()
		switch {
		case dx > 0:
			tx = grid.Width() - 1
		case dx < 0:
			tx = 0
		case dy > 0:
			ty = grid.Height() - 1
		case dy < 0:
			ty = 0
		}
	}

	var committed bool
	if mode == ModeStep {
		committed = g.Step(tx, ty)
	} else {
		committed = g.Push(tx, ty)
	}

	result := &MoveResult{Committed: committed}
	if !committed {
		result.Reason = "blocked"
	} else {
		s.resolve(sess)
	}
	result.GameState = s.buildState(sess)
	return result, nil
}

// Walk moves the token to the given cell along a shortest path of plain
// steps. Nothing happens when the cell is unreachable or holds an object.
func (s *gameServiceImpl) Walk(ctx context.Context, sessionID string, x, y int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	g := sess.Game
	if !g.CanMoveNow() {
		return s.blockedResult(sess), nil
	}

	result := &MoveResult{Committed: g.WalkTo(x, y)}
	if !result.Committed {
		result.Reason = "no path to target"
	} else {
		s.resolve(sess)
	}
	result.GameState = s.buildState(sess)
	return result, nil
}

// Undo takes back the most recent move
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	g := sess.Game
	if !g.CanMoveNow() {
		return s.blockedResult(sess), nil
	}

	result := &MoveResult{Committed: g.Undo()}
	if !result.Committed {
		result.Reason = "nothing to undo"
	} else {
		s.resolve(sess)
	}
	result.GameState = s.buildState(sess)
	return result, nil
}

// Redo replays the most recently undone move
func (s *gameServiceImpl) Redo(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	g := sess.Game
	if !g.CanMoveNow() {
		return s.blockedResult(sess), nil
	}

	result := &MoveResult{Committed: g.Redo()}
	if !result.Committed {
		result.Reason = "nothing to redo"
	} else {
		s.resolve(sess)
	}
	result.GameState = s.buildState(sess)
	return result, nil
}

// Advance applies one pending displacement of the current playback. Callers
// drive this at their own cadence when the service runs with animation on.
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	g := sess.Game
	if !g.Playing() {
		return &MoveResult{
			Committed: false,
			Reason:    "no playback in progress",
			GameState: s.buildState(sess),
		}, nil
	}

	if still := g.Advance(); !still {
		s.recordCompletion(sess)
		s.autoSave(sess.ID)
	}

	return &MoveResult{Committed: true, GameState: s.buildState(sess)}, nil
}

// Restart reloads the current level, dropping all moves and history
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Game.Restart(); err != nil {
		return nil, fmt.Errorf("failed to restart level: %w", err)
	}

	s.autoSave(sess.ID)
	return s.buildState(sess), nil
}

// SetLevel jumps to the given level of the current collection. The range is
// checked here so a bad request cannot leave the session on a broken level.
func (s *gameServiceImpl) SetLevel(ctx context.Context, sessionID string, level int) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	col := sess.Game.LevelMap().Collection()
	if col == nil {
		return nil, fmt.Errorf("session has no collection")
	}
	if level < 0 || level >= col.LevelCount() {
		return nil, fmt.Errorf("%w: level %d out of range (collection '%s' has %d levels)",
			ErrInvalidInput, level, col.ID(), col.LevelCount())
	}

	if err := sess.Game.SetLevel(level); err != nil {
		return nil, fmt.Errorf("failed to set level: %w", err)
	}

	s.autoSave(sess.ID)
	return s.buildState(sess), nil
}

// NextLevel advances to the next level. The current level must be completed,
// either in this session or in a previous one recorded by the progress store.
func (s *gameServiceImpl) NextLevel(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	g := sess.Game
	lm := g.LevelMap()
	if !g.Completed() && !s.levelDone(lm.Collection(), lm.Level()) {
		return nil, fmt.Errorf("level %d: %w", lm.Level(), ErrLevelLocked)
	}

	if err := g.NextLevel(); err != nil {
		return nil, fmt.Errorf("failed to advance level: %w", err)
	}

	s.autoSave(sess.ID)
	return s.buildState(sess), nil
}

// PreviousLevel goes back one level
func (s *gameServiceImpl) PreviousLevel(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Game.PreviousLevel(); err != nil {
		return nil, fmt.Errorf("failed to go back a level: %w", err)
	}

	s.autoSave(sess.ID)
	return s.buildState(sess), nil
}

// ChangeCollection switches the session to another collection, starting at
// its first level
func (s *gameServiceImpl) ChangeCollection(ctx context.Context, sessionID, collectionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	col, err := s.collections.LoadCollection(collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection '%s': %w", collectionID, err)
	}

	if err := sess.Game.ChangeCollection(col); err != nil {
		return nil, fmt.Errorf("failed to change collection: %w", err)
	}

	s.autoSave(sess.ID)
	return s.buildState(sess), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.buildState(sess), nil
}

// GetHistory returns the session's move history in text encoding
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	h := sess.Game.History()
	return &HistoryResponse{
		Moves:    h.MoveCount(),
		Redoable: h.RedoCount(),
		Stream:   h.Save(),
	}, nil
}

// GetProgress reports per-level completion for the session's collection
func (s *gameServiceImpl) GetProgress(ctx context.Context, sessionID string) (*ProgressInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.progress == nil {
		return nil, ErrNoProgressStore
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	col := sess.Game.LevelMap().Collection()
	if col == nil {
		return nil, fmt.Errorf("session has no collection")
	}

	levels, err := s.progress.CollectionProgress(col.ID(), col.LevelCount())
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	return &ProgressInfo{Collection: col.ID(), Levels: levels}, nil
}

// SetBookmark saves the session's current position into a bookmark slot
func (s *gameServiceImpl) SetBookmark(ctx context.Context, sessionID string, slot int) (*BookmarkInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress == nil {
		return nil, ErrNoProgressStore
	}
	if slot < 1 || slot > MaxBookmarkSlots {
		return nil, fmt.Errorf("%w: bookmark slot %d (use 1-%d)", ErrInvalidInput, slot, MaxBookmarkSlots)
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	bm, err := engine.MakeBookmark(sess.Game)
	if err != nil {
		return nil, fmt.Errorf("failed to make bookmark: %w", err)
	}

	if err := s.progress.SaveBookmark(slot, bm); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return &BookmarkInfo{
		Slot:       slot,
		Collection: bm.Collection,
		Level:      bm.Level,
		Moves:      bm.Moves,
		SavedAt:    time.Now(),
	}, nil
}

// GoToBookmark restores a bookmark slot into the session, switching
// collections when the bookmark was taken on a different one
func (s *gameServiceImpl) GoToBookmark(ctx context.Context, sessionID string, slot int) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.progress == nil {
		return nil, ErrNoProgressStore
	}
	if slot < 1 || slot > MaxBookmarkSlots {
		return nil, fmt.Errorf("%w: bookmark slot %d (use 1-%d)", ErrInvalidInput, slot, MaxBookmarkSlots)
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	bm, _, err := s.progress.LoadBookmark(slot)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmark %d: %w", slot, err)
	}

	g := sess.Game
	current := g.LevelMap().Collection()
	if current == nil || current.ID() != bm.Collection {
		col, err := s.collections.LoadCollection(bm.Collection)
		if err != nil {
			return nil, fmt.Errorf("bookmark collection '%s' unavailable: %w", bm.Collection, err)
		}
		if err := g.ChangeCollection(col); err != nil {
			return nil, fmt.Errorf("failed to change collection: %w", err)
		}
	}

	if err := g.GoToBookmark(bm); err != nil {
		return nil, fmt.Errorf("failed to restore bookmark: %w", err)
	}

	s.autoSave(sess.ID)
	return s.buildState(sess), nil
}

// ListBookmarks returns every stored bookmark slot
func (s *gameServiceImpl) ListBookmarks(ctx context.Context) ([]*BookmarkInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.progress == nil {
		return nil, ErrNoProgressStore
	}

	bookmarks, err := s.progress.ListBookmarks()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	return bookmarks, nil
}

// ListCollections returns all available level collections
func (s *gameServiceImpl) ListCollections(ctx context.Context) ([]*CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collections, err := s.collections.ListCollections()
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	return collections, nil
}

// resolve finishes a freshly committed move. Without animation the whole
// playback runs here; with animation the caller advances it tick by tick.
func (s *gameServiceImpl) resolve(sess *Session) {
	if s.animate {
		return
	}
	sess.Game.FinishPlayback()
	s.recordCompletion(sess)
	s.autoSave(sess.ID)
}

// recordCompletion stores a completed level in the progress store
func (s *gameServiceImpl) recordCompletion(sess *Session) {
	if s.progress == nil || !sess.Game.Completed() {
		return
	}

	lm := sess.Game.LevelMap()
	col := lm.Collection()
	if col == nil || col.ID() == "" {
		return
	}

	if err := s.progress.RecordCompletion(col.ID(), lm.Level(), lm.TotalMoves(), lm.TotalPushes()); err != nil {
		log.Warnf("Failed to record completion for %s level %d: %v", col.ID(), lm.Level(), err)
	}
}

// autoSave persists a session, logging instead of failing the operation
func (s *gameServiceImpl) autoSave(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warnf("Failed to persist session %s: %v", sessionID, err)
	}
}

// blockedResult reports why a session cannot accept moves right now
func (s *gameServiceImpl) blockedResult(sess *Session) *MoveResult {
	reason := "level not playable"
	if sess.Game.Playing() {
		reason = "playback in progress"
	}
	return &MoveResult{
		Committed: false,
		Reason:    reason,
		GameState: s.buildState(sess),
	}
}

// buildState snapshots a session into a transport-facing GameState
func (s *gameServiceImpl) buildState(sess *Session) *GameState {
	g := sess.Game
	lm := g.LevelMap()

	state := &GameState{
		Level:     lm.Level(),
		Moves:     lm.TotalMoves(),
		Pushes:    lm.TotalPushes(),
		Completed: g.Completed(),
		Playing:   g.Playing(),
		CanUndo:   g.History().MoveCount() > 0,
		CanRedo:   g.History().RedoCount() > 0,
	}

	if col := lm.Collection(); col != nil {
		state.Collection = col.ID()
		state.CollectionName = col.Name()
		state.LevelCount = col.LevelCount()
	}

	if grid := lm.Map(); grid != nil {
		state.Board = grid.Rows()
		state.Width = grid.Width()
		state.Height = grid.Height()
		state.TokenX = grid.TokenX()
		state.TokenY = grid.TokenY()
		state.ObjectsLeft = grid.ObjectsLeft()
	} else {
		state.Broken = true
		state.Message = "level failed to load"
	}

	return state
}

// levelDone checks the progress store for a recorded completion
func (s *gameServiceImpl) levelDone(col engine.Collection, level int) bool {
	if s.progress == nil || col == nil {
		return false
	}

	done, err := s.progress.LevelCompleted(col.ID(), level)
	if err != nil {
		log.Warnf("Failed to check completion for %s level %d: %v", col.ID(), level, err)
		return false
	}
	return done
}

// sessionInfo builds session metadata for API responses
func sessionInfo(sess *Session) *SessionInfo {
	lm := sess.Game.LevelMap()
	info := &SessionInfo{
		ID:             sess.ID,
		Level:          lm.Level(),
		Moves:          lm.TotalMoves(),
		Pushes:         lm.TotalPushes(),
		Completed:      sess.Game.Completed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
	}
	if col := lm.Collection(); col != nil {
		info.Collection = col.ID()
		info.CollectionName = col.Name()
	}
	return info
}
