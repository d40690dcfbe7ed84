package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KDE/skladnik/game/engine"
)

// Search failure modes. The search is complete, so errNoSolution means the
// level genuinely cannot be solved; the limit errors mark searches that were
// cut off before an answer either way.
var (
	errNoSolution = errors.New("no solution exists")
	errNodeLimit  = errors.New("node limit reached")
	errTimeout    = errors.New("time limit reached")
)

// Solution is a solved level: the move stream in the history text encoding,
// replayable through the history loader, plus search statistics. Moves
// counts elementary token movements including the walking between pushes;
// Pushes counts only the movements that shoved an object.
type Solution struct {
	Stream string
	Moves  int
	Pushes int
	Nodes  int
}

// searchDirs is the expansion order: up, down, left, right, matching the
// engine's neighbor order so replays stay deterministic.
var searchDirs = [4]struct{ dx, dy int }{
	{0, -1},
	{0, 1},
	{-1, 0},
	{1, 0},
}

// board is the static part of a level. Walls and goals never move during the
// search, so they are extracted from the grid once and addressed by linear
// cell index.
type board struct {
	w, h   int
	wall   []bool
	target []bool
}

func newBoard(g *engine.Grid) *board {
	b := &board{
		w:      g.Width(),
		h:      g.Height(),
		wall:   make([]bool, g.Width()*g.Height()),
		target: make([]bool, g.Width()*g.Height()),
	}
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			b.wall[y*b.w+x] = g.IsWall(x, y)
			b.target[y*b.w+x] = g.IsTarget(x, y)
		}
	}
	return b
}

func (b *board) wallAt(x, y int) bool {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return true
	}
	return b.wall[y*b.w+x]
}

// solved reports whether every object sits on a goal cell.
func (b *board) solved(objects []uint16) bool {
	for _, o := range objects {
		if !b.target[o] {
			return false
		}
	}
	return true
}

// cornerDead reports whether an object parked on cell i could never be
// pushed again: off its goal and blocked by walls on both axes. Pushing an
// object there loses the level, so the search prunes the branch.
func (b *board) cornerDead(i int) bool {
	if b.target[i] {
		return false
	}
	x, y := i%b.w, i/b.w
	vertical := b.wallAt(x, y-1) || b.wallAt(x, y+1)
	horizontal := b.wallAt(x-1, y) || b.wallAt(x+1, y)
	return vertical && horizontal
}

// reach flood-fills the cells the token can walk to from cell `from` without
// crossing a wall or an object. It returns the visit mask and the smallest
// visited index, which normalizes the token position for deduplication: two
// states with equal objects and equal anchors allow exactly the same pushes.
func (b *board) reach(occupied []bool, from int) (mask []bool, anchor int) {
	mask = make([]bool, b.w*b.h)
	mask[from] = true
	anchor = from
	stack := []int{from}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i < anchor {
			anchor = i
		}
		x, y := i%b.w, i/b.w
		for _, d := range searchDirs {
			nx, ny := x+d.dx, y+d.dy
			if nx < 0 || nx >= b.w || ny < 0 || ny >= b.h {
				continue
			}
			j := ny*b.w + nx
			if mask[j] || b.wall[j] || occupied[j] {
				continue
			}
			mask[j] = true
			stack = append(stack, j)
		}
	}
	return mask, anchor
}

// node is one push state: the sorted object cells and the token cell. For
// every node but the root the token stands where the pushed object stood, so
// token and dir fully describe the push that produced the state.
type node struct {
	parent  int
	objects []uint16
	token   int
	dir     int
}

// stateKey packs the normalized token anchor and the object cells into a map
// key. Objects are kept sorted, so equal states always encode identically.
func stateKey(anchor int, objects []uint16) string {
	key := make([]byte, 0, 2+2*len(objects))
	key = append(key, byte(anchor), byte(anchor>>8))
	for _, o := range objects {
		key = append(key, byte(o), byte(o>>8))
	}
	return string(key)
}

// moveObject copies objects with entry oi relocated to dest, restoring the
// sort order.
func moveObject(objects []uint16, oi int, dest uint16) []uint16 {
	out := make([]uint16, len(objects))
	copy(out, objects)
	out[oi] = dest
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func collectObjects(g *engine.Grid) []uint16 {
	var objects []uint16
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.HasObject(x, y) {
				objects = append(objects, uint16(y*g.Width()+x))
			}
		}
	}
	return objects
}

// Solve searches for a push-minimal solution by breadth-first search over
// push states. Two positions count as the same state when the objects match
// and the token can reach the same region, so the branching factor is the
// number of legal pushes rather than the four walk directions. maxNodes
// caps the queue size when positive; a zero deadline disables the time
// limit.
func Solve(g *engine.Grid, maxNodes int, deadline time.Time) (*Solution, error) {
	b := newBoard(g)

	objects := collectObjects(g)
	if b.solved(objects) {
		return &Solution{Stream: "@"}, nil
	}

	nodes := []node{{parent: -1, objects: objects, token: g.TokenY()*b.w + g.TokenX(), dir: -1}}
	visited := make(map[string]bool)
	occupied := make([]bool, b.w*b.h)
	expanded := 0

	for head := 0; head < len(nodes); head++ {
		if head%1024 == 0 && !deadline.IsZero() && time.Now().After(deadline) {
			return nil, errTimeout
		}

		cur := nodes[head]
		for _, o := range cur.objects {
			occupied[o] = true
		}

		mask, anchor := b.reach(occupied, cur.token)
		key := stateKey(anchor, cur.objects)
		if !visited[key] {
			visited[key] = true
			expanded++

			for oi, o := range cur.objects {
				x, y := int(o)%b.w, int(o)/b.w
				for di, d := range searchDirs {
					standX, standY := x-d.dx, y-d.dy
					destX, destY := x+d.dx, y+d.dy
					if standX < 0 || standX >= b.w || standY < 0 || standY >= b.h {
						continue
					}
					if !mask[standY*b.w+standX] {
						continue
					}
					if destX < 0 || destX >= b.w || destY < 0 || destY >= b.h {
						continue
					}
					dest := destY*b.w + destX
					if b.wall[dest] || occupied[dest] {
						continue
					}
					if b.cornerDead(dest) {
						continue
					}

					child := node{
						parent:  head,
						objects: moveObject(cur.objects, oi, uint16(dest)),
						token:   int(o),
						dir:     di,
					}
					if b.solved(child.objects) {
						nodes = append(nodes, child)
						sol, err := reconstruct(b, g, nodes, len(nodes)-1)
						if err != nil {
							return nil, err
						}
						sol.Nodes = expanded
						return sol, nil
					}
					if maxNodes > 0 && len(nodes) >= maxNodes {
						return nil, errNodeLimit
					}
					nodes = append(nodes, child)
				}
			}
		}

		for _, o := range cur.objects {
			occupied[o] = false
		}
	}

	return nil, errNoSolution
}

// reconstruct replays the push chain on a copy of the grid, expanding each
// push into one engine move: the walk to the cell behind the object followed
// by the push run. Consecutive pushes of the same object in the same
// direction merge into a single run, which is what a player's push-run move
// would record.
func reconstruct(b *board, g *engine.Grid, nodes []node, goal int) (*Solution, error) {
	var chain []int
	for i := goal; nodes[i].parent >= 0; i = nodes[i].parent {
		chain = append(chain, i)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	grid := g.Clone()
	sol := &Solution{}
	var stream strings.Builder

	for c := 0; c < len(chain); {
		n := nodes[chain[c]]
		d := searchDirs[n.dir]
		objX, objY := n.token%b.w, n.token/b.w
		standX, standY := objX-d.dx, objY-d.dy

		m := engine.NewMove(grid.TokenX(), grid.TokenY())

		if grid.TokenX() != standX || grid.TokenY() != standY {
			path, err := walkPath(grid, standX, standY)
			if err != nil {
				return nil, err
			}
			for _, p := range path {
				if !m.Step(p.x, p.y) {
					return nil, fmt.Errorf("illegal step to (%d,%d) during replay", p.x, p.y)
				}
				if !grid.MoveToken(grid.TokenX(), grid.TokenY(), p.x, p.y) {
					return nil, fmt.Errorf("blocked step to (%d,%d) during replay", p.x, p.y)
				}
			}
		}

		// Extend the run while the chain keeps pushing the same object the
		// same way
		run := 1
		for c+run < len(chain) {
			next := nodes[chain[c+run]]
			if next.dir != n.dir {
				break
			}
			nx, ny := next.token%b.w, next.token/b.w
			if nx != objX+run*d.dx || ny != objY+run*d.dy {
				break
			}
			run++
		}

		if !m.Push(objX+(run-1)*d.dx, objY+(run-1)*d.dy) {
			return nil, fmt.Errorf("illegal push at (%d,%d) during replay", objX, objY)
		}
		for s := 0; s < run; s++ {
			ox, oy := objX+s*d.dx, objY+s*d.dy
			if !grid.MoveObject(ox, oy, ox+d.dx, oy+d.dy) {
				return nil, fmt.Errorf("blocked object push at (%d,%d) during replay", ox, oy)
			}
			if !grid.MoveToken(grid.TokenX(), grid.TokenY(), ox, oy) {
				return nil, fmt.Errorf("blocked token push at (%d,%d) during replay", ox, oy)
			}
		}

		m.Finish()
		stream.WriteString(m.Text())
		stream.WriteByte('*')
		sol.Moves += m.Len()
		sol.Pushes += m.Pushes()

		c += run
	}

	if !grid.Completed() {
		return nil, fmt.Errorf("replay left %d objects off goals", grid.ObjectsLeft())
	}

	// Terminate with the cursor mark so the stream is exactly what a history
	// save of the played solution looks like.
	stream.WriteByte('@')
	sol.Stream = stream.String()
	return sol, nil
}

type cellStep struct{ x, y int }

// walkPath finds the shortest walk from the token to (tx, ty) through empty
// cells, expanding neighbors in the engine's up, down, left, right order.
// The returned path excludes the starting cell.
func walkPath(g *engine.Grid, tx, ty int) ([]cellStep, error) {
	w, h := g.Width(), g.Height()
	prev := make([]int, w*h)
	for i := range prev {
		prev[i] = -2
	}

	start := g.TokenY()*w + g.TokenX()
	target := ty*w + tx
	prev[start] = -1
	queue := []int{start}

	for qi := 0; qi < len(queue) && prev[target] == -2; qi++ {
		i := queue[qi]
		x, y := i%w, i/w
		for _, d := range searchDirs {
			nx, ny := x+d.dx, y+d.dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			j := ny*w + nx
			if prev[j] != -2 || !g.Empty(nx, ny) {
				continue
			}
			prev[j] = i
			queue = append(queue, j)
		}
	}

	if prev[target] == -2 {
		return nil, fmt.Errorf("no walk path to (%d,%d)", tx, ty)
	}

	var path []cellStep
	for i := target; i != start; i = prev[i] {
		path = append(path, cellStep{i % w, i / w})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
