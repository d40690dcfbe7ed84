package engine

import "fmt"

// Game ties the engine together the way a player drives it: a level map, the
// move history, a path finder for click-to-walk, and at most one active
// MoveSequence replaying the latest committed move.
//
// A fresh move is validated by applying it to the map while it is being
// built, committed to history, undone, and then handed to a MoveSequence so
// the caller can re-apply it one cell per Advance tick. Callers that do not
// animate simply call FinishPlayback after each commit.
type Game struct {
	lm   *LevelMap
	hist *History
	pf   PathFinder
	seq  *MoveSequence
}

// NewGame loads the first level of c and returns the game around it.
func NewGame(c Collection) (*Game, error) {
	g := &Game{lm: NewLevelMap(), hist: NewHistory()}
	if err := g.lm.ChangeCollection(c); err != nil {
		return nil, err
	}
	return g, nil
}

// LevelMap exposes the authoritative level state.
func (g *Game) LevelMap() *LevelMap { return g.lm }

// History exposes the undo/redo record.
func (g *Game) History() *History { return g.hist }

// Completed reports whether the current level is solved.
func (g *Game) Completed() bool { return g.lm.Completed() }

// Playing reports whether a committed move is still being replayed.
func (g *Game) Playing() bool { return g.seq != nil }

// CanMoveNow reports whether a new move may be committed: no playback in
// progress and a cleanly loaded level.
func (g *Game) CanMoveNow() bool {
	return g.seq == nil && g.lm.GoodLevel()
}

// commit seals a move that has already been applied to the map, records it,
// rolls the map back and starts playback, so the move re-applies stepwise
// from its validated starting state.
func (g *Game) commit(m *Move) {
	m.Finish()
	g.hist.Add(m)
	m.Undo(g.lm)
	g.seq = NewMoveSequence(m, g.lm)
}

// slide moves the token in a straight line toward (x, y), stepping while
// cells are free and, when push is set, shoving an object the rest of the
// way. Movement stops at the target, at the first obstacle, or when the
// pushed object jams. Commits and returns true if the token moved at all.
func (g *Game) slide(x, y int, push bool) bool {
	if !g.CanMoveNow() {
		return false
	}
	startX, startY := g.lm.XPos(), g.lm.YPos()
	dx := sign(x - startX)
	dy := sign(y - startY)
	if (dx != 0 && dy != 0) || (dx == 0 && dy == 0) {
		return false
	}

	m := NewMove(startX, startY)
	cx, cy := startX, startY
	for (cx != x || cy != y) && g.lm.Step(cx+dx, cy+dy) {
		cx += dx
		cy += dy
		m.Step(cx, cy)
	}
	if push {
		for (cx != x || cy != y) && g.lm.Push(cx+dx, cy+dy) {
			cx += dx
			cy += dy
			m.Push(cx, cy)
		}
	}
	if m.Empty() {
		return false
	}
	g.commit(m)
	return true
}

// Step slides the token toward (x, y) without pushing anything. The target
// must lie on the token's row or column; the slide stops early at the first
// blocked cell. Returns whether a move was committed.
func (g *Game) Step(x, y int) bool {
	return g.slide(x, y, false)
}

// Push slides the token toward (x, y), pushing an object ahead of it once
// one is reached. Returns whether a move was committed.
func (g *Game) Push(x, y int) bool {
	return g.slide(x, y, true)
}

// WalkTo commits the shortest walk to (x, y) found by the path finder.
// Returns false when no move can be committed or (x, y) is unreachable. The
// search never touches the map, so playback starts without a rollback.
func (g *Game) WalkTo(x, y int) bool {
	if !g.CanMoveNow() {
		return false
	}
	m := g.pf.Search(g.lm.Map(), x, y)
	if m == nil {
		return false
	}
	g.hist.Add(m)
	g.seq = NewMoveSequence(m, g.lm)
	return true
}

// Undo starts playing the inverse of the most recent move. Returns false
// when playback is active, the level is broken, or there is nothing to undo.
func (g *Game) Undo() bool {
	if !g.CanMoveNow() {
		return false
	}
	m := g.hist.DeferUndo()
	if m == nil {
		return false
	}
	g.seq = NewMoveSequence(m, g.lm)
	return true
}

// Redo starts replaying the most recently undone move. Returns false when
// playback is active, the level is broken, or there is nothing to redo.
func (g *Game) Redo() bool {
	if !g.CanMoveNow() {
		return false
	}
	m := g.hist.DeferRedo()
	if m == nil {
		return false
	}
	g.seq = NewMoveSequence(m, g.lm)
	return true
}

// Advance applies one displacement of the active playback and reports
// whether playback continues. The sequence is dropped the moment the level
// completes, even with displacements remaining; a won level stays won.
func (g *Game) Advance() bool {
	if g.seq == nil {
		return false
	}
	more := g.seq.Next()
	if !more || g.lm.Completed() {
		g.seq = nil
		return false
	}
	return true
}

// FinishPlayback resolves any active playback synchronously. This is the
// no-animation path: the whole move lands in one call.
func (g *Game) FinishPlayback() {
	for g.Advance() {
	}
}

// Restart reloads the current level and clears the history.
func (g *Game) Restart() error {
	return g.SetLevel(g.lm.Level())
}

// SetLevel jumps to level n, dropping any playback and clearing the history.
func (g *Game) SetLevel(n int) error {
	g.seq = nil
	g.hist.Clear()
	return g.lm.SetLevel(n)
}

// NextLevel advances to the next level in the collection.
func (g *Game) NextLevel() error {
	if g.lm.Collection() == nil {
		return fmt.Errorf("no collection selected")
	}
	if g.lm.Level()+1 >= g.lm.Collection().LevelCount() {
		return fmt.Errorf("already at the last level of %q", g.lm.Collection().Name())
	}
	return g.SetLevel(g.lm.Level() + 1)
}

// PreviousLevel goes back to the previous level in the collection.
func (g *Game) PreviousLevel() error {
	if g.lm.Level() == 0 {
		return fmt.Errorf("already at the first level")
	}
	return g.SetLevel(g.lm.Level() - 1)
}

// ChangeCollection switches to collection c at its first level, dropping any
// playback and clearing the history.
func (g *Game) ChangeCollection(c Collection) error {
	g.seq = nil
	g.hist.Clear()
	return g.lm.ChangeCollection(c)
}
