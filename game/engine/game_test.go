package engine

import "testing"

// newTestGame builds a game over a single-level collection.
func newTestGame(t *testing.T, rows ...string) *Game {
	t.Helper()
	c := &testCollection{id: "test", name: "Test", levels: [][]string{rows}}
	g, err := NewGame(c)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return g
}

func newScenarioGame(t *testing.T) *Game {
	t.Helper()
	return newTestGame(t,
		"#####",
		"#@  #",
		"#$  #",
		"#.  #",
		"#####",
	)
}

func TestGamePushScenario(t *testing.T) {
	g := newScenarioGame(t)

	if !g.Push(1, 3) {
		t.Fatal("Expected the push to commit")
	}
	if g.CanMoveNow() {
		t.Error("Expected CanMoveNow false during playback")
	}
	g.FinishPlayback()

	lm := g.LevelMap()
	if lm.XPos() != 1 || lm.YPos() != 2 {
		t.Errorf("Expected token at (1,2), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if !lm.Map().HasObject(1, 3) {
		t.Error("Expected the object at (1,3)")
	}
	if !g.Completed() {
		t.Error("Expected the level completed")
	}
	if lm.TotalPushes() != 1 {
		t.Errorf("Expected 1 push, got %d", lm.TotalPushes())
	}
	if lm.TotalMoves() != 0 {
		t.Errorf("Expected 0 moves, got %d", lm.TotalMoves())
	}
	if g.History().MoveCount() != 1 {
		t.Errorf("Expected 1 committed move, got %d", g.History().MoveCount())
	}
}

func TestGameStepNeverPushes(t *testing.T) {
	g := newScenarioGame(t)

	if g.Step(1, 3) {
		t.Error("Expected a step into the object to commit nothing")
	}
	lm := g.LevelMap()
	if lm.XPos() != 1 || lm.YPos() != 1 {
		t.Errorf("Expected the token unmoved, got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if !lm.Map().HasObject(1, 2) {
		t.Error("Expected the object unmoved")
	}
	if lm.TotalMoves() != 0 || lm.TotalPushes() != 0 {
		t.Error("Expected no counters to change")
	}
}

func TestGamePushIntoWallBackedObject(t *testing.T) {
	g := newTestGame(t,
		"#####",
		"#@  #",
		"#$.##",
		"#####",
	)

	if g.Push(1, 3) {
		t.Error("Expected a push into a wall-backed object to commit nothing")
	}
	lm := g.LevelMap()
	if lm.XPos() != 1 || lm.YPos() != 1 {
		t.Errorf("Expected the token unmoved, got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if !lm.Map().HasObject(1, 2) {
		t.Error("Expected the object unmoved")
	}
	if lm.TotalPushes() != 0 {
		t.Errorf("Expected 0 pushes, got %d", lm.TotalPushes())
	}
}

func TestGameDiagonalTargetsRejected(t *testing.T) {
	g := newScenarioGame(t)

	if g.Step(2, 2) {
		t.Error("Expected a diagonal step target to be rejected")
	}
	if g.Push(3, 3) {
		t.Error("Expected a diagonal push target to be rejected")
	}
}

func TestGameStepSlide(t *testing.T) {
	g := newTestGame(t,
		"#######",
		"#@   $#",
		"#....##",
		"#$$$###",
		"#######",
	)

	// Slide right: stops in front of the object at (5,1).
	if !g.Step(5, 1) {
		t.Fatal("Expected the slide to commit")
	}
	g.FinishPlayback()

	lm := g.LevelMap()
	if lm.XPos() != 4 || lm.YPos() != 1 {
		t.Errorf("Expected the slide to stop at (4,1), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if lm.TotalMoves() != 3 {
		t.Errorf("Expected 3 moves, got %d", lm.TotalMoves())
	}
	if lm.TotalPushes() != 0 {
		t.Errorf("Expected 0 pushes, got %d", lm.TotalPushes())
	}
}

func TestGameUndoRedo(t *testing.T) {
	g := newScenarioGame(t)

	if !g.Push(1, 3) {
		t.Fatal("Expected the push to commit")
	}
	g.FinishPlayback()

	if !g.Undo() {
		t.Fatal("Expected Undo to start")
	}
	g.FinishPlayback()

	lm := g.LevelMap()
	if lm.XPos() != 1 || lm.YPos() != 1 {
		t.Errorf("Expected token restored to (1,1), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if !lm.Map().HasObject(1, 2) {
		t.Error("Expected the object restored to (1,2)")
	}
	if lm.TotalPushes() != 0 {
		t.Errorf("Expected the push counter at 0, got %d", lm.TotalPushes())
	}
	if g.Completed() {
		t.Error("Expected the level uncompleted after undo")
	}

	if !g.Redo() {
		t.Fatal("Expected Redo to start")
	}
	g.FinishPlayback()

	if lm.XPos() != 1 || lm.YPos() != 2 || !g.Completed() || lm.TotalPushes() != 1 {
		t.Error("Expected redo to reproduce the pushed state")
	}

	// Nothing left to redo.
	if g.Redo() {
		t.Error("Expected Redo with an empty future to return false")
	}
}

func TestGameUndoOnEmptyHistory(t *testing.T) {
	g := newScenarioGame(t)

	if g.Undo() {
		t.Error("Expected Undo with no history to return false")
	}
	lm := g.LevelMap()
	if lm.XPos() != 1 || lm.YPos() != 1 {
		t.Error("Expected the map untouched")
	}
}

func TestGameWalkTo(t *testing.T) {
	g := newTestGame(t,
		"#####",
		"#@$ #",
		"# . #",
		"#   #",
		"#####",
	)

	if !g.WalkTo(3, 1) {
		t.Fatal("Expected the walk to commit")
	}
	if g.CanMoveNow() {
		t.Error("Expected CanMoveNow false during the walk")
	}

	// Drive the playback tick by tick: a 4-cell walk continues 3 times.
	ticks := 0
	for g.Advance() {
		ticks++
	}
	if ticks != 3 {
		t.Errorf("Expected 3 continuing ticks, got %d", ticks)
	}

	lm := g.LevelMap()
	if lm.XPos() != 3 || lm.YPos() != 1 {
		t.Errorf("Expected token at (3,1), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if lm.TotalMoves() != 4 {
		t.Errorf("Expected 4 moves, got %d", lm.TotalMoves())
	}
	if g.History().MoveCount() != 1 {
		t.Errorf("Expected a single committed move, got %d", g.History().MoveCount())
	}

	if g.WalkTo(2, 1) {
		t.Error("Expected no walk onto the object")
	}
}

func TestGameEarlyExitOnCompletion(t *testing.T) {
	g := newTestGame(t,
		"#######",
		"#@$.  #",
		"#######",
	)

	// The committed run would push the object three cells, but it crosses
	// the only target after one; playback stops right there and the rest of
	// the run is discarded.
	if !g.Push(5, 1) {
		t.Fatal("Expected the push run to commit")
	}
	g.FinishPlayback()

	lm := g.LevelMap()
	if !g.Completed() {
		t.Fatal("Expected the level completed")
	}
	if lm.XPos() != 2 || lm.YPos() != 1 {
		t.Errorf("Expected token stopped at (2,1), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if !lm.Map().HasObject(3, 1) {
		t.Error("Expected the object resting on the target at (3,1)")
	}
	if lm.TotalPushes() != 1 {
		t.Errorf("Expected 1 applied push, got %d", lm.TotalPushes())
	}
	if g.Playing() {
		t.Error("Expected playback dropped on completion")
	}
}

func TestGameRestart(t *testing.T) {
	g := newScenarioGame(t)

	if !g.Push(1, 3) {
		t.Fatal("Expected the push to commit")
	}
	g.FinishPlayback()

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	lm := g.LevelMap()
	if lm.XPos() != 1 || lm.YPos() != 1 {
		t.Errorf("Expected token back at (1,1), got (%d,%d)", lm.XPos(), lm.YPos())
	}
	if lm.TotalMoves() != 0 || lm.TotalPushes() != 0 {
		t.Error("Expected counters reset")
	}
	if !g.History().Empty() {
		t.Error("Expected the history cleared")
	}
	if g.Undo() {
		t.Error("Expected nothing to undo after a restart")
	}
}

func TestGameLevelNavigation(t *testing.T) {
	c := &testCollection{id: "nav", name: "Nav", levels: [][]string{
		{"#####", "#@$.#", "#####"},
		{"#####", "#.$@#", "#####"},
	}}
	g, err := NewGame(c)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	if !g.Push(3, 1) {
		t.Fatal("Expected the push to commit")
	}
	g.FinishPlayback()

	if err := g.NextLevel(); err != nil {
		t.Fatalf("NextLevel failed: %v", err)
	}
	if g.LevelMap().Level() != 1 {
		t.Errorf("Expected level 1, got %d", g.LevelMap().Level())
	}
	if !g.History().Empty() {
		t.Error("Expected the history cleared on level change")
	}
	if err := g.NextLevel(); err == nil {
		t.Error("Expected NextLevel at the last level to fail")
	}

	if err := g.PreviousLevel(); err != nil {
		t.Fatalf("PreviousLevel failed: %v", err)
	}
	if g.LevelMap().Level() != 0 {
		t.Errorf("Expected level 0, got %d", g.LevelMap().Level())
	}
	if err := g.PreviousLevel(); err == nil {
		t.Error("Expected PreviousLevel at the first level to fail")
	}
}

func TestGameChangeCollection(t *testing.T) {
	g := newScenarioGame(t)
	other := &testCollection{id: "other", name: "Other", levels: [][]string{
		{"#####", "#.$@#", "#####"},
	}}

	if !g.Step(3, 1) {
		t.Fatal("Expected the step to commit")
	}
	g.FinishPlayback()

	if err := g.ChangeCollection(other); err != nil {
		t.Fatalf("ChangeCollection failed: %v", err)
	}
	if g.LevelMap().Collection().ID() != "other" {
		t.Errorf("Expected collection other, got %q", g.LevelMap().Collection().ID())
	}
	if g.LevelMap().Level() != 0 {
		t.Errorf("Expected level 0, got %d", g.LevelMap().Level())
	}
	if !g.History().Empty() {
		t.Error("Expected the history cleared on collection change")
	}
}
