package engine

import "fmt"

// Grid holds the cell matrix for one level: walls, targets, objects and the
// token. The token position is stored once on the Grid rather than as a cell
// flag, so there is exactly one token by construction. objectsLeft tracks how
// many objects are not yet on target cells; the level is solved when it
// reaches zero.
type Grid struct {
	width  int
	height int
	cells  []tile

	tokenX int
	tokenY int

	objectsLeft int
}

// ParseGrid builds a Grid from rows of level symbols: '#' wall, '.' target,
// '$' object, '*' object on target, '@' token, '+' token on target. Space,
// '-' and '_' all read as empty floor. Rows may have different lengths; short
// rows are padded. It returns an error for malformed data: no rows, a grid
// larger than MaxWidth x MaxHeight, an unknown symbol, zero or multiple
// tokens, no objects, or an object/target count mismatch.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("level has no rows")
	}
	if len(rows) > MaxHeight {
		return nil, fmt.Errorf("level is %d rows tall, maximum is %d", len(rows), MaxHeight)
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("level has no columns")
	}
	if width > MaxWidth {
		return nil, fmt.Errorf("level is %d columns wide, maximum is %d", width, MaxWidth)
	}

	g := &Grid{
		width:  width,
		height: len(rows),
		cells:  make([]tile, width*len(rows)),
		tokenX: -1,
		tokenY: -1,
	}

	tokens, objects, targets := 0, 0, 0
	for y, row := range rows {
		for x := 0; x < width; x++ {
			var symbol byte = SymbolFloor
			if x < len(row) {
				symbol = row[x]
			}
			switch symbol {
			case SymbolWall:
				g.cells[y*width+x] = tileWall
			case SymbolFloor, '-', '_':
				// empty floor
			case SymbolTarget:
				g.cells[y*width+x] = tileTarget
				targets++
			case SymbolObject:
				g.cells[y*width+x] = tileObject
				objects++
				g.objectsLeft++
			case SymbolObjectOnTarget:
				g.cells[y*width+x] = tileObject | tileTarget
				objects++
				targets++
			case SymbolToken:
				g.tokenX, g.tokenY = x, y
				tokens++
			case SymbolTokenOnTarget:
				g.cells[y*width+x] = tileTarget
				g.tokenX, g.tokenY = x, y
				tokens++
				targets++
			default:
				return nil, fmt.Errorf("unknown symbol %q at row %d column %d", symbol, y, x)
			}
		}
	}

	if tokens == 0 {
		return nil, fmt.Errorf("level has no token")
	}
	if tokens > 1 {
		return nil, fmt.Errorf("level has %d tokens, expected exactly one", tokens)
	}
	if objects == 0 {
		return nil, fmt.Errorf("level has no objects")
	}
	if objects != targets {
		return nil, fmt.Errorf("level has %d objects but %d targets", objects, targets)
	}

	g.fillFloor(g.tokenX, g.tokenY)
	return g, nil
}

// fillFloor marks every cell reachable from (x, y) without crossing a wall as
// interior floor. Objects and targets sit on floor too.
func (g *Grid) fillFloor(x, y int) {
	type point struct{ x, y int }
	stack := []point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !g.HasCoord(p.x, p.y) {
			continue
		}
		cell := &g.cells[p.y*g.width+p.x]
		if *cell&(tileWall|tileFloor) != 0 {
			continue
		}
		*cell |= tileFloor
		for _, d := range directions {
			stack = append(stack, point{p.x + d.dx, p.y + d.dy})
		}
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// TokenX returns the token's column.
func (g *Grid) TokenX() int { return g.tokenX }

// TokenY returns the token's row.
func (g *Grid) TokenY() int { return g.tokenY }

// ObjectsLeft returns how many objects are not on target cells.
func (g *Grid) ObjectsLeft() int { return g.objectsLeft }

// Completed reports whether every object sits on a target cell.
func (g *Grid) Completed() bool { return g.objectsLeft == 0 }

// HasCoord reports whether (x, y) lies inside the grid.
func (g *Grid) HasCoord(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsWall reports whether (x, y) is a wall. Out-of-bounds coordinates read as
// walls so that legality checks never walk off the grid.
func (g *Grid) IsWall(x, y int) bool {
	if !g.HasCoord(x, y) {
		return true
	}
	return g.cells[y*g.width+x]&tileWall != 0
}

// IsTarget reports whether (x, y) is a target cell.
func (g *Grid) IsTarget(x, y int) bool {
	if !g.HasCoord(x, y) {
		return false
	}
	return g.cells[y*g.width+x]&tileTarget != 0
}

// HasObject reports whether an object occupies (x, y).
func (g *Grid) HasObject(x, y int) bool {
	if !g.HasCoord(x, y) {
		return false
	}
	return g.cells[y*g.width+x]&tileObject != 0
}

// IsFloor reports whether (x, y) is interior floor, the region reachable from
// the token's starting cell.
func (g *Grid) IsFloor(x, y int) bool {
	if !g.HasCoord(x, y) {
		return false
	}
	return g.cells[y*g.width+x]&tileFloor != 0
}

// HasToken reports whether the token stands on (x, y).
func (g *Grid) HasToken(x, y int) bool {
	return x == g.tokenX && y == g.tokenY
}

// Empty reports whether (x, y) can be moved into: inside the grid, not a
// wall, no object and no token.
func (g *Grid) Empty(x, y int) bool {
	return g.HasCoord(x, y) && !g.IsWall(x, y) && !g.HasObject(x, y) && !g.HasToken(x, y)
}

// MoveToken relocates the token from (fromX, fromY) to (toX, toY). The token
// must stand on the source cell and the destination must be inside the grid,
// not a wall and free of objects. The cells need not be adjacent; step
// legality is the level map's concern. Returns false and leaves the grid
// untouched when a precondition fails.
func (g *Grid) MoveToken(fromX, fromY, toX, toY int) bool {
	if !g.HasToken(fromX, fromY) {
		return false
	}
	if !g.HasCoord(toX, toY) || g.IsWall(toX, toY) || g.HasObject(toX, toY) {
		return false
	}
	g.tokenX, g.tokenY = toX, toY
	return true
}

// MoveObject relocates an object from (fromX, fromY) to (toX, toY). An object
// must occupy the source cell and the destination must be inside the grid,
// not a wall, free of objects and free of the token. The objectsLeft counter
// follows the object across target cells. Returns false and leaves the grid
// untouched when a precondition fails.
func (g *Grid) MoveObject(fromX, fromY, toX, toY int) bool {
	if !g.HasObject(fromX, fromY) {
		return false
	}
	if !g.HasCoord(toX, toY) || g.IsWall(toX, toY) || g.HasObject(toX, toY) || g.HasToken(toX, toY) {
		return false
	}
	g.cells[fromY*g.width+fromX] &^= tileObject
	g.cells[toY*g.width+toX] |= tileObject
	if g.IsTarget(fromX, fromY) {
		g.objectsLeft++
	}
	if g.IsTarget(toX, toY) {
		g.objectsLeft--
	}
	return true
}

// Rows renders the grid back into level symbols, one string per row. Floor
// and exterior cells both render as spaces.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	line := make([]byte, g.width)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			switch {
			case g.IsWall(x, y):
				line[x] = SymbolWall
			case g.HasToken(x, y) && g.IsTarget(x, y):
				line[x] = SymbolTokenOnTarget
			case g.HasToken(x, y):
				line[x] = SymbolToken
			case g.HasObject(x, y) && g.IsTarget(x, y):
				line[x] = SymbolObjectOnTarget
			case g.HasObject(x, y):
				line[x] = SymbolObject
			case g.IsTarget(x, y):
				line[x] = SymbolTarget
			default:
				line[x] = SymbolFloor
			}
		}
		rows[y] = string(line)
	}
	return rows
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := *g
	clone.cells = make([]tile, len(g.cells))
	copy(clone.cells, g.cells)
	return &clone
}
