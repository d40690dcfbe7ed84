package engine

// PathFinder turns a destination cell into a walk for the token: a
// breadth-first search over walkable cells (no walls, no objects) from the
// token's position. The search buffers are reused across calls, so a
// PathFinder is cheap to keep per game but must not be shared between
// goroutines.
//
// Paths are deterministic: cells are expanded in the fixed neighbor order
// up, down, left, right, and among equally short paths the first one found
// in that order wins.
type PathFinder struct {
	width  int
	height int
	dist   []int
	parent []int
	queue  []int
}

const unreached = -1

// prepare sizes the buffers for g and resets them.
func (pf *PathFinder) prepare(g *Grid) {
	pf.width = g.Width()
	pf.height = g.Height()
	size := pf.width * pf.height
	if cap(pf.dist) < size {
		pf.dist = make([]int, size)
		pf.parent = make([]int, size)
	} else {
		pf.dist = pf.dist[:size]
		pf.parent = pf.parent[:size]
	}
	for i := range pf.dist {
		pf.dist[i] = unreached
		pf.parent[i] = unreached
	}
	pf.queue = pf.queue[:0]
}

// UpdatePossibleMoves floods the walkable region from the token, recording
// the step distance of every reachable cell. Reachable and Distance report
// against this flood until the next update.
func (pf *PathFinder) UpdatePossibleMoves(g *Grid) {
	pf.prepare(g)
	start := g.TokenY()*pf.width + g.TokenX()
	pf.dist[start] = 0
	pf.queue = append(pf.queue, start)
	for head := 0; head < len(pf.queue); head++ {
		idx := pf.queue[head]
		x := idx % pf.width
		y := idx / pf.width
		for _, d := range directions {
			nx, ny := x+d.dx, y+d.dy
			if !g.HasCoord(nx, ny) || g.IsWall(nx, ny) || g.HasObject(nx, ny) {
				continue
			}
			nidx := ny*pf.width + nx
			if pf.dist[nidx] != unreached {
				continue
			}
			pf.dist[nidx] = pf.dist[idx] + 1
			pf.parent[nidx] = idx
			pf.queue = append(pf.queue, nidx)
		}
	}
}

// Reachable reports whether the token can walk to (x, y) without pushing
// anything, according to the last UpdatePossibleMoves flood.
func (pf *PathFinder) Reachable(x, y int) bool {
	return pf.Distance(x, y) >= 0
}

// Distance returns the walk distance from the token to (x, y) recorded by
// the last flood, or -1 when unreachable or out of bounds.
func (pf *PathFinder) Distance(x, y int) int {
	if x < 0 || x >= pf.width || y < 0 || y >= pf.height {
		return unreached
	}
	return pf.dist[y*pf.width+x]
}

// Search returns a sealed steps-only Move walking the token from its current
// cell to (x, y), or nil when (x, y) is the token's own cell, not walkable,
// or unreachable. The move's step count equals the true shortest distance.
func (pf *PathFinder) Search(g *Grid, x, y int) *Move {
	if g == nil || !g.HasCoord(x, y) {
		return nil
	}
	if g.HasToken(x, y) || g.IsWall(x, y) || g.HasObject(x, y) {
		return nil
	}
	pf.UpdatePossibleMoves(g)
	target := y*pf.width + x
	if pf.dist[target] == unreached {
		return nil
	}

	cells := make([]int, 0, pf.dist[target])
	for idx := target; pf.parent[idx] != unreached; idx = pf.parent[idx] {
		cells = append(cells, idx)
	}

	m := NewMove(g.TokenX(), g.TokenY())
	for i := len(cells) - 1; i >= 0; i-- {
		if !m.Step(cells[i]%pf.width, cells[i]/pf.width) {
			return nil
		}
	}
	m.Finish()
	return m
}
