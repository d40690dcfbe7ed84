package engine

import "fmt"

// LevelMap owns the authoritative game state for one loaded level: the grid,
// the identity of the level within its collection, and the move and push
// counters. All mutation goes through the elementary primitives Step, Push,
// UnStep and UnPush, which validate legality and keep the counters in sync.
//
// A level that fails to load leaves the map with GoodLevel() false; every
// mutating primitive is then a rejected no-op until a level loads cleanly.
// Loading a level does not clear any History; callers that hold one must
// clear it themselves on level change.
type LevelMap struct {
	grid       *Grid
	collection Collection
	level      int

	totalMoves  int
	totalPushes int
	good        bool
}

// NewLevelMap returns an empty map with no level loaded. Use
// ChangeCollection or SetLevel to load one.
func NewLevelMap() *LevelMap {
	return &LevelMap{}
}

// ChangeCollection swaps the active collection and loads its first level.
func (lm *LevelMap) ChangeCollection(c Collection) error {
	lm.collection = c
	return lm.SetLevel(0)
}

// SetLevel loads level n from the active collection, replacing the grid and
// resetting the counters. On failure the map is marked broken and the error
// describes why.
func (lm *LevelMap) SetLevel(n int) error {
	lm.good = false
	if lm.collection == nil {
		return fmt.Errorf("no collection selected")
	}
	if n < 0 || n >= lm.collection.LevelCount() {
		return fmt.Errorf("level %d out of range, collection %q has %d levels",
			n, lm.collection.Name(), lm.collection.LevelCount())
	}
	lm.level = n
	lm.grid = nil
	lm.totalMoves = 0
	lm.totalPushes = 0

	rows, err := lm.collection.Level(n)
	if err != nil {
		return fmt.Errorf("loading level %d of %q: %w", n, lm.collection.Name(), err)
	}
	grid, err := ParseGrid(rows)
	if err != nil {
		return fmt.Errorf("level %d of %q: %w", n, lm.collection.Name(), err)
	}
	lm.grid = grid
	lm.good = true
	return nil
}

// Collection returns the active collection, nil before the first
// ChangeCollection.
func (lm *LevelMap) Collection() Collection { return lm.collection }

// Level returns the index of the loaded level within its collection.
func (lm *LevelMap) Level() int { return lm.level }

// GoodLevel reports whether the current level loaded cleanly. While false,
// all mutating primitives reject.
func (lm *LevelMap) GoodLevel() bool { return lm.good }

// Map exposes the underlying grid for read-only use (path search, views).
// Nil while no level is loaded.
func (lm *LevelMap) Map() *Grid { return lm.grid }

// XPos returns the token's column, -1 while no level is loaded.
func (lm *LevelMap) XPos() int {
	if lm.grid == nil {
		return -1
	}
	return lm.grid.TokenX()
}

// YPos returns the token's row, -1 while no level is loaded.
func (lm *LevelMap) YPos() int {
	if lm.grid == nil {
		return -1
	}
	return lm.grid.TokenY()
}

// TotalMoves returns how many non-push steps have been applied.
func (lm *LevelMap) TotalMoves() int { return lm.totalMoves }

// TotalPushes returns how many push displacements have been applied.
func (lm *LevelMap) TotalPushes() int { return lm.totalPushes }

// Completed reports whether every object sits on a target.
func (lm *LevelMap) Completed() bool {
	return lm.good && lm.grid.Completed()
}

// adjacent reports whether (x, y) is orthogonally adjacent to the token.
func (lm *LevelMap) adjacent(x, y int) bool {
	dx := x - lm.grid.TokenX()
	dy := y - lm.grid.TokenY()
	return dx*dx+dy*dy == 1
}

// Step moves the token one cell onto (x, y), which must be adjacent, not a
// wall and free of objects. Increments the move counter.
func (lm *LevelMap) Step(x, y int) bool {
	if !lm.good || !lm.adjacent(x, y) {
		return false
	}
	if !lm.grid.MoveToken(lm.grid.TokenX(), lm.grid.TokenY(), x, y) {
		return false
	}
	lm.totalMoves++
	return true
}

// UnStep is the reverse of Step: the same movement, but the move counter is
// decremented. Used when replaying a move backwards.
func (lm *LevelMap) UnStep(x, y int) bool {
	if !lm.good || !lm.adjacent(x, y) {
		return false
	}
	if !lm.grid.MoveToken(lm.grid.TokenX(), lm.grid.TokenY(), x, y) {
		return false
	}
	lm.totalMoves--
	return true
}

// Push moves the token onto the adjacent cell (x, y), shoving the object
// there one cell further in the same direction. The cell beyond must be
// inside the grid, not a wall and free of objects. Increments the push
// counter; the move counter is untouched.
func (lm *LevelMap) Push(x, y int) bool {
	if !lm.good || !lm.adjacent(x, y) {
		return false
	}
	if !lm.grid.HasObject(x, y) {
		return false
	}
	beyondX := 2*x - lm.grid.TokenX()
	beyondY := 2*y - lm.grid.TokenY()
	if !lm.grid.HasCoord(beyondX, beyondY) || lm.grid.IsWall(beyondX, beyondY) || lm.grid.HasObject(beyondX, beyondY) {
		return false
	}
	lm.grid.MoveObject(x, y, beyondX, beyondY)
	lm.grid.MoveToken(lm.grid.TokenX(), lm.grid.TokenY(), x, y)
	lm.totalPushes++
	return true
}

// UnPush is the reverse of Push: the token retreats onto the adjacent cell
// (x, y) and the object it pushed follows it back into the token's old cell
// (a pull). Requires an object in the cell the token is backing away from.
// Decrements the push counter.
func (lm *LevelMap) UnPush(x, y int) bool {
	if !lm.good || !lm.adjacent(x, y) {
		return false
	}
	if lm.grid.IsWall(x, y) || lm.grid.HasObject(x, y) {
		return false
	}
	tokenX := lm.grid.TokenX()
	tokenY := lm.grid.TokenY()
	objectX := 2*tokenX - x
	objectY := 2*tokenY - y
	if !lm.grid.HasObject(objectX, objectY) {
		return false
	}
	lm.grid.MoveToken(tokenX, tokenY, x, y)
	lm.grid.MoveObject(objectX, objectY, tokenX, tokenY)
	lm.totalPushes--
	return true
}
