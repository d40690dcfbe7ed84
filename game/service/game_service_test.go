package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KDE/skladnik/game/engine"
	"github.com/KDE/skladnik/game/service"
)

// testCollection implements engine.Collection for testing
type testCollection struct {
	id     string
	name   string
	levels [][]string
}

func (c *testCollection) ID() string      { return c.id }
func (c *testCollection) Name() string    { return c.name }
func (c *testCollection) LevelCount() int { return len(c.levels) }

func (c *testCollection) Level(n int) ([]string, error) {
	if n < 0 || n >= len(c.levels) {
		return nil, fmt.Errorf("level %d out of range", n)
	}
	return c.levels[n], nil
}

// corridor has a one-push first level and a step-then-push second level.
func corridorCollection() *testCollection {
	return &testCollection{
		id:   "corridor",
		name: "Corridor",
		levels: [][]string{
			{
				"#####",
				"#@$.#",
				"#####",
			},
			{
				"######",
				"#@ $.#",
				"######",
			},
		},
	}
}

// hall leaves two free cells between the token and the object.
func hallCollection() *testCollection {
	return &testCollection{
		id:   "hall",
		name: "Hall",
		levels: [][]string{
			{
				"#######",
				"#@  $.#",
				"#######",
			},
		},
	}
}

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, col engine.Collection) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	g, err := engine.NewGame(col)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Game:           g,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, col engine.Collection) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, col)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	return nil
}

// MockCollectionManager implements service.CollectionManager for testing
type MockCollectionManager struct {
	collections map[string]engine.Collection
	defaultID   string
}

func NewMockCollectionManager() *MockCollectionManager {
	return &MockCollectionManager{
		collections: map[string]engine.Collection{
			"corridor": corridorCollection(),
			"hall":     hallCollection(),
		},
		defaultID: "corridor",
	}
}

func (m *MockCollectionManager) LoadCollection(id string) (engine.Collection, error) {
	col, exists := m.collections[id]
	if !exists {
		return nil, errors.New("collection not found")
	}
	return col, nil
}

func (m *MockCollectionManager) ListCollections() ([]*service.CollectionInfo, error) {
	result := make([]*service.CollectionInfo, 0, len(m.collections))
	for id, col := range m.collections {
		result = append(result, &service.CollectionInfo{
			ID:     id,
			Name:   col.Name(),
			Levels: col.LevelCount(),
			Source: "test",
		})
	}
	return result, nil
}

func (m *MockCollectionManager) GetDefault() engine.Collection {
	return m.collections[m.defaultID]
}

// MockProgressStore implements service.ProgressStore in memory
type MockProgressStore struct {
	completions map[string]*service.LevelProgress
	bookmarks   map[int]engine.Bookmark
	savedAt     map[int]time.Time
}

func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{
		completions: make(map[string]*service.LevelProgress),
		bookmarks:   make(map[int]engine.Bookmark),
		savedAt:     make(map[int]time.Time),
	}
}

func progressKey(collection string, level int) string {
	return fmt.Sprintf("%s:%d", collection, level)
}

func (m *MockProgressStore) RecordCompletion(collection string, level, moves, pushes int) error {
	key := progressKey(collection, level)
	existing, ok := m.completions[key]
	if !ok || moves < existing.BestMoves {
		m.completions[key] = &service.LevelProgress{
			Level:      level,
			Completed:  true,
			BestMoves:  moves,
			BestPushes: pushes,
		}
	}
	return nil
}

func (m *MockProgressStore) LevelCompleted(collection string, level int) (bool, error) {
	_, ok := m.completions[progressKey(collection, level)]
	return ok, nil
}

func (m *MockProgressStore) CollectionProgress(collection string, levelCount int) ([]*service.LevelProgress, error) {
	result := make([]*service.LevelProgress, 0, levelCount)
	for i := 0; i < levelCount; i++ {
		if p, ok := m.completions[progressKey(collection, i)]; ok {
			result = append(result, p)
		} else {
			result = append(result, &service.LevelProgress{Level: i})
		}
	}
	return result, nil
}

func (m *MockProgressStore) SaveBookmark(slot int, bm engine.Bookmark) error {
	m.bookmarks[slot] = bm
	m.savedAt[slot] = time.Now()
	return nil
}

func (m *MockProgressStore) LoadBookmark(slot int) (engine.Bookmark, time.Time, error) {
	bm, ok := m.bookmarks[slot]
	if !ok {
		return engine.Bookmark{}, time.Time{}, service.ErrBookmarkNotFound
	}
	return bm, m.savedAt[slot], nil
}

func (m *MockProgressStore) ListBookmarks() ([]*service.BookmarkInfo, error) {
	result := make([]*service.BookmarkInfo, 0, len(m.bookmarks))
	for slot, bm := range m.bookmarks {
		result = append(result, &service.BookmarkInfo{
			Slot:       slot,
			Collection: bm.Collection,
			Level:      bm.Level,
			Moves:      bm.Moves,
			SavedAt:    m.savedAt[slot],
		})
	}
	return result, nil
}

func (m *MockProgressStore) Close() error { return nil }

func newTestService(t *testing.T) (service.GameService, *MockProgressStore) {
	t.Helper()
	store := NewMockProgressStore()
	svc := service.NewGameService(NewMockSessionManager(), NewMockCollectionManager(), store, false)
	return svc, store
}

func mustCreateSession(t *testing.T, svc service.GameService, collectionID string) *service.SessionInfo {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	return info
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name         string
		collectionID string
		wantErr      bool
	}{
		{
			name:         "create with default collection",
			collectionID: "",
			wantErr:      false,
		},
		{
			name:         "create with specific collection",
			collectionID: "hall",
			wantErr:      false,
		},
		{
			name:         "create with unknown collection",
			collectionID: "nonexistent",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.collectionID)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if info == nil {
				t.Fatal("CreateSession() returned nil info")
			}
			if info.Level != 0 {
				t.Errorf("new session level = %d, want 0", info.Level)
			}
		})
	}
}

func TestGameService_MoveValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	tests := []struct {
		name      string
		sessionID string
		direction string
		mode      string
		wantErr   bool
	}{
		{
			name:      "valid push move",
			sessionID: info.ID,
			direction: "right",
			mode:      service.ModePush,
			wantErr:   false,
		},
		{
			name:      "unknown session",
			sessionID: "nonexistent",
			direction: "up",
			mode:      service.ModePush,
			wantErr:   true,
		},
		{
			name:      "invalid direction",
			sessionID: info.ID,
			direction: "diagonal",
			mode:      service.ModePush,
			wantErr:   true,
		},
		{
			name:      "invalid mode",
			sessionID: info.ID,
			direction: "up",
			mode:      "teleport",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Move(ctx, tt.sessionID, tt.direction, tt.mode)
			if (err != nil) != tt.wantErr {
				t.Errorf("Move() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGameService_MoveModes(t *testing.T) {
	ctx := context.Background()

	t.Run("step runs to the first obstacle", func(t *testing.T) {
		svc, _ := newTestService(t)
		info := mustCreateSession(t, svc, "hall")

		result, err := svc.Move(ctx, info.ID, "right", service.ModeStep)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if !result.Committed {
			t.Fatalf("step move not committed: %s", result.Reason)
		}
		state := result.GameState
		if state.TokenX != 3 || state.TokenY != 1 {
			t.Errorf("token at (%d,%d), want (3,1)", state.TokenX, state.TokenY)
		}
		if state.Moves != 2 || state.Pushes != 0 {
			t.Errorf("moves=%d pushes=%d, want 2 and 0", state.Moves, state.Pushes)
		}
	})

	t.Run("push moves a single cell", func(t *testing.T) {
		svc, _ := newTestService(t)
		info := mustCreateSession(t, svc, "hall")

		result, err := svc.Move(ctx, info.ID, "right", service.ModePush)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if !result.Committed {
			t.Fatalf("push move not committed: %s", result.Reason)
		}
		if result.GameState.TokenX != 2 {
			t.Errorf("token x = %d, want 2", result.GameState.TokenX)
		}
		if result.GameState.Moves != 1 {
			t.Errorf("moves = %d, want 1", result.GameState.Moves)
		}
	})

	t.Run("pushrun pushes through to completion", func(t *testing.T) {
		svc, _ := newTestService(t)
		info := mustCreateSession(t, svc, "hall")

		result, err := svc.Move(ctx, info.ID, "right", service.ModePushRun)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if !result.Committed {
			t.Fatalf("pushrun move not committed: %s", result.Reason)
		}
		state := result.GameState
		if !state.Completed {
			t.Error("level not completed after pushrun")
		}
		if state.Moves != 2 || state.Pushes != 1 {
			t.Errorf("moves=%d pushes=%d, want 2 and 1", state.Moves, state.Pushes)
		}
	})

	t.Run("blocked move commits nothing", func(t *testing.T) {
		svc, _ := newTestService(t)
		info := mustCreateSession(t, svc, "hall")

		result, err := svc.Move(ctx, info.ID, "up", service.ModePush)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if result.Committed {
			t.Error("move into a wall reported as committed")
		}
		if result.Reason != "blocked" {
			t.Errorf("reason = %q, want \"blocked\"", result.Reason)
		}
		if result.GameState.Moves != 0 {
			t.Errorf("moves = %d, want 0", result.GameState.Moves)
		}
	})
}

func TestGameService_Walk(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "hall")

	result, err := svc.Walk(ctx, info.ID, 3, 1)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if !result.Committed {
		t.Fatalf("walk not committed: %s", result.Reason)
	}
	if result.GameState.TokenX != 3 || result.GameState.Moves != 2 {
		t.Errorf("token x=%d moves=%d, want 3 and 2", result.GameState.TokenX, result.GameState.Moves)
	}

	// The object cell is never a walk target.
	result, err = svc.Walk(ctx, info.ID, 4, 1)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if result.Committed {
		t.Error("walk onto an object reported as committed")
	}
	if result.Reason != "no path to target" {
		t.Errorf("reason = %q, want \"no path to target\"", result.Reason)
	}
}

func TestGameService_UndoRedo(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	result, err := svc.Undo(ctx, info.ID)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if result.Committed {
		t.Error("undo on a fresh session reported as committed")
	}
	if result.Reason != "nothing to undo" {
		t.Errorf("reason = %q, want \"nothing to undo\"", result.Reason)
	}

	if _, err := svc.Move(ctx, info.ID, "right", service.ModePush); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	result, err = svc.Undo(ctx, info.ID)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !result.Committed {
		t.Fatalf("undo not committed: %s", result.Reason)
	}
	if result.GameState.Completed {
		t.Error("level still completed after undo")
	}
	if result.GameState.Moves != 0 || result.GameState.Pushes != 0 {
		t.Errorf("moves=%d pushes=%d after undo, want 0 and 0",
			result.GameState.Moves, result.GameState.Pushes)
	}
	if !result.GameState.CanRedo {
		t.Error("CanRedo false after undo")
	}

	result, err = svc.Redo(ctx, info.ID)
	if err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if !result.Committed {
		t.Fatalf("redo not committed: %s", result.Reason)
	}
	if !result.GameState.Completed {
		t.Error("level not completed after redo")
	}
}

func TestGameService_Animation(t *testing.T) {
	ctx := context.Background()
	store := NewMockProgressStore()
	svc := service.NewGameService(NewMockSessionManager(), NewMockCollectionManager(), store, true)
	info := mustCreateSession(t, svc, "hall")

	result, err := svc.Move(ctx, info.ID, "right", service.ModeStep)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !result.Committed {
		t.Fatalf("move not committed: %s", result.Reason)
	}
	if !result.GameState.Playing {
		t.Fatal("playback not pending with animation on")
	}
	if result.GameState.Moves != 0 {
		t.Errorf("moves = %d before playback, want 0", result.GameState.Moves)
	}

	// A second move while playback is pending is refused, not an error.
	blocked, err := svc.Move(ctx, info.ID, "right", service.ModeStep)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if blocked.Committed {
		t.Error("move committed while playback pending")
	}
	if blocked.Reason != "playback in progress" {
		t.Errorf("reason = %q, want \"playback in progress\"", blocked.Reason)
	}

	ticks := 0
	for {
		result, err = svc.Advance(ctx, info.ID)
		if err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		if !result.Committed {
			break
		}
		ticks++
		if ticks > 10 {
			t.Fatal("playback never finished")
		}
	}

	if result.Reason != "no playback in progress" {
		t.Errorf("final reason = %q, want \"no playback in progress\"", result.Reason)
	}
	if result.GameState.Moves != 2 {
		t.Errorf("moves = %d after playback, want 2", result.GameState.Moves)
	}
	if result.GameState.Playing {
		t.Error("still playing after playback drained")
	}
}

func TestGameService_NextLevelGating(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	if _, err := svc.NextLevel(ctx, info.ID); !errors.Is(err, service.ErrLevelLocked) {
		t.Errorf("NextLevel() on unfinished level: error = %v, want ErrLevelLocked", err)
	}

	if _, err := svc.Move(ctx, info.ID, "right", service.ModePush); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	state, err := svc.NextLevel(ctx, info.ID)
	if err != nil {
		t.Fatalf("NextLevel() after completion: error = %v", err)
	}
	if state.Level != 1 {
		t.Errorf("level = %d, want 1", state.Level)
	}

	// The store remembers the completion, so a new session skips level 0
	// without replaying it.
	if done, _ := store.LevelCompleted("corridor", 0); !done {
		t.Fatal("completion not recorded in the progress store")
	}
	fresh := mustCreateSession(t, svc, "corridor")
	state, err = svc.NextLevel(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("NextLevel() with recorded completion: error = %v", err)
	}
	if state.Level != 1 {
		t.Errorf("level = %d, want 1", state.Level)
	}

	if _, err := svc.NextLevel(ctx, fresh.ID); err == nil {
		t.Error("NextLevel() past the last level did not fail")
	}
}

func TestGameService_PreviousLevel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	if _, err := svc.PreviousLevel(ctx, info.ID); err == nil {
		t.Error("PreviousLevel() on the first level did not fail")
	}

	if _, err := svc.SetLevel(ctx, info.ID, 1); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	state, err := svc.PreviousLevel(ctx, info.ID)
	if err != nil {
		t.Fatalf("PreviousLevel() error = %v", err)
	}
	if state.Level != 0 {
		t.Errorf("level = %d, want 0", state.Level)
	}
}

func TestGameService_Restart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "hall")

	if _, err := svc.Walk(ctx, info.ID, 3, 1); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	state, err := svc.Restart(ctx, info.ID)
	if err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if state.Moves != 0 || state.TokenX != 1 {
		t.Errorf("moves=%d token x=%d after restart, want 0 and 1", state.Moves, state.TokenX)
	}
	if state.CanUndo {
		t.Error("CanUndo true after restart")
	}
}

func TestGameService_SetLevelOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	if _, err := svc.SetLevel(ctx, info.ID, 99); err == nil {
		t.Error("SetLevel(99) did not fail")
	}
	if _, err := svc.SetLevel(ctx, info.ID, -1); err == nil {
		t.Error("SetLevel(-1) did not fail")
	}

	// The session stays playable after a rejected level change.
	result, err := svc.Move(ctx, info.ID, "right", service.ModePush)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !result.Committed {
		t.Errorf("move not committed after rejected SetLevel: %s", result.Reason)
	}
}

func TestGameService_GetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	h, err := svc.GetHistory(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if h.Stream != "@" {
		t.Errorf("empty history stream = %q, want \"@\"", h.Stream)
	}

	if _, err := svc.Move(ctx, info.ID, "right", service.ModePush); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if _, err := svc.Undo(ctx, info.ID); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	h, err = svc.GetHistory(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if h.Moves != 0 || h.Redoable != 1 {
		t.Errorf("moves=%d redoable=%d, want 0 and 1", h.Moves, h.Redoable)
	}
	if h.Stream != "@R1*" {
		t.Errorf("stream = %q, want \"@R1*\"", h.Stream)
	}
}

func TestGameService_GetProgress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	if _, err := svc.Move(ctx, info.ID, "right", service.ModePush); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	progress, err := svc.GetProgress(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if progress.Collection != "corridor" {
		t.Errorf("collection = %q, want \"corridor\"", progress.Collection)
	}
	if len(progress.Levels) != 2 {
		t.Fatalf("got %d level entries, want 2", len(progress.Levels))
	}
	if !progress.Levels[0].Completed || progress.Levels[0].BestMoves != 1 {
		t.Errorf("level 0 progress = %+v, want completed with best moves 1", progress.Levels[0])
	}
	if progress.Levels[1].Completed {
		t.Error("level 1 reported completed")
	}

	bare := service.NewGameService(NewMockSessionManager(), NewMockCollectionManager(), nil, false)
	bareInfo := mustCreateSession(t, bare, "corridor")
	if _, err := bare.GetProgress(ctx, bareInfo.ID); !errors.Is(err, service.ErrNoProgressStore) {
		t.Errorf("GetProgress() without store: error = %v, want ErrNoProgressStore", err)
	}
}

func TestGameService_Bookmarks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "hall")

	if _, err := svc.Walk(ctx, info.ID, 3, 1); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	bm, err := svc.SetBookmark(ctx, info.ID, 1)
	if err != nil {
		t.Fatalf("SetBookmark() error = %v", err)
	}
	if bm.Collection != "hall" || bm.Level != 0 || bm.Moves != 2 {
		t.Errorf("bookmark = %+v, want hall level 0 with 2 moves", bm)
	}

	// Finish the level, then jump back to the bookmarked position.
	if _, err := svc.Move(ctx, info.ID, "right", service.ModePushRun); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	state, err := svc.GoToBookmark(ctx, info.ID, 1)
	if err != nil {
		t.Fatalf("GoToBookmark() error = %v", err)
	}
	if state.Completed {
		t.Error("level completed after bookmark restore")
	}
	if state.TokenX != 3 || state.Moves != 2 || state.Pushes != 0 {
		t.Errorf("restored token x=%d moves=%d pushes=%d, want 3, 2 and 0",
			state.TokenX, state.Moves, state.Pushes)
	}

	list, err := svc.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("ListBookmarks() error = %v", err)
	}
	if len(list) != 1 || list[0].Slot != 1 {
		t.Errorf("bookmark list = %+v, want a single slot 1 entry", list)
	}
}

func TestGameService_BookmarkAcrossCollections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	hall := mustCreateSession(t, svc, "hall")
	if _, err := svc.Walk(ctx, hall.ID, 2, 1); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if _, err := svc.SetBookmark(ctx, hall.ID, 3); err != nil {
		t.Fatalf("SetBookmark() error = %v", err)
	}

	// Restoring into a session on another collection switches it over.
	other := mustCreateSession(t, svc, "corridor")
	state, err := svc.GoToBookmark(ctx, other.ID, 3)
	if err != nil {
		t.Fatalf("GoToBookmark() error = %v", err)
	}
	if state.Collection != "hall" {
		t.Errorf("collection = %q, want \"hall\"", state.Collection)
	}
	if state.TokenX != 2 || state.Moves != 1 {
		t.Errorf("token x=%d moves=%d, want 2 and 1", state.TokenX, state.Moves)
	}
}

func TestGameService_BookmarkErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	if _, err := svc.SetBookmark(ctx, info.ID, 0); err == nil {
		t.Error("SetBookmark(0) did not fail")
	}
	if _, err := svc.SetBookmark(ctx, info.ID, service.MaxBookmarkSlots+1); err == nil {
		t.Error("SetBookmark(11) did not fail")
	}
	if _, err := svc.GoToBookmark(ctx, info.ID, 5); !errors.Is(err, service.ErrBookmarkNotFound) {
		t.Errorf("GoToBookmark() on empty slot: error = %v, want ErrBookmarkNotFound", err)
	}

	bare := service.NewGameService(NewMockSessionManager(), NewMockCollectionManager(), nil, false)
	bareInfo := mustCreateSession(t, bare, "corridor")
	if _, err := bare.SetBookmark(ctx, bareInfo.ID, 1); !errors.Is(err, service.ErrNoProgressStore) {
		t.Errorf("SetBookmark() without store: error = %v, want ErrNoProgressStore", err)
	}
}

func TestGameService_ChangeCollection(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	state, err := svc.ChangeCollection(ctx, info.ID, "hall")
	if err != nil {
		t.Fatalf("ChangeCollection() error = %v", err)
	}
	if state.Collection != "hall" || state.Level != 0 {
		t.Errorf("collection=%q level=%d, want \"hall\" and 0", state.Collection, state.Level)
	}

	if _, err := svc.ChangeCollection(ctx, info.ID, "nonexistent"); err == nil {
		t.Error("ChangeCollection() to unknown collection did not fail")
	}
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first := mustCreateSession(t, svc, "")
	second := mustCreateSession(t, svc, "hall")

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d sessions, want 2", len(list))
	}

	got, err := svc.GetSession(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Collection != "corridor" {
		t.Errorf("default session collection = %q, want \"corridor\"", got.Collection)
	}

	if err := svc.DeleteSession(ctx, second.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, second.ID); err == nil {
		t.Error("GetSession() after delete did not fail")
	}
}

func TestGameService_ListCollections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	list, err := svc.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d collections, want 2", len(list))
	}
}

func TestGameService_GetGameState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info := mustCreateSession(t, svc, "corridor")

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState() error = %v", err)
	}
	if state.Width != 5 || state.Height != 3 {
		t.Errorf("board %dx%d, want 5x3", state.Width, state.Height)
	}
	if len(state.Board) != 3 || state.Board[1] != "#@$.#" {
		t.Errorf("board rows = %q", state.Board)
	}
	if state.ObjectsLeft != 1 {
		t.Errorf("objects left = %d, want 1", state.ObjectsLeft)
	}
	if state.Broken {
		t.Error("healthy level reported broken")
	}
}
