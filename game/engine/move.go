package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// moveKind tags one elementary displacement inside a Move. Forward moves are
// built from steps and pushes; unstep and unpush only appear in the inverse
// moves handed out by the undo machinery, where they make a pull sequence
// playable front to back like any other move.
type moveKind uint8

const (
	kindStep moveKind = iota
	kindPush
	kindUnStep
	kindUnPush
)

// displacement is one elementary token movement: a unit delta plus its kind.
type displacement struct {
	dx, dy int
	kind   moveKind
}

// Move is one committed player action: an ordered list of elementary
// displacements starting from a fixed origin. A forward move is a run of
// steps optionally terminated by a push run in a single direction. Once
// Finish seals the move no further displacements can be added; History only
// ever stores sealed moves.
//
// Every prefix of the displacement list is itself a legal sequence, which is
// what makes it safe to abandon a MoveSequence part way through.
type Move struct {
	startX, startY int
	finalX, finalY int
	displacements  []displacement
	pushes         int
	finished       bool
}

// NewMove starts recording a move with the token at (x, y).
func NewMove(x, y int) *Move {
	return &Move{startX: x, startY: y, finalX: x, finalY: y}
}

// Step records a single token step onto (x, y), which must be orthogonally
// adjacent to the move's running endpoint. Steps are rejected once the move
// is sealed or once a push has been recorded, since a push always ends a
// move.
func (m *Move) Step(x, y int) bool {
	if m.finished || m.pushes > 0 {
		return false
	}
	dx := x - m.finalX
	dy := y - m.finalY
	if dx*dx+dy*dy != 1 {
		return false
	}
	m.displacements = append(m.displacements, displacement{dx, dy, kindStep})
	m.finalX, m.finalY = x, y
	return true
}

// Push records the terminal push run: the token moves from the running
// endpoint to (x, y) in a straight line, shoving an object ahead of it the
// whole way. (x, y) must be colinear with the endpoint at distance one or
// more; a multi-cell push decomposes into unit push displacements. Further
// pushes may only extend the run in the same direction, and no steps may
// follow.
func (m *Move) Push(x, y int) bool {
	if m.finished {
		return false
	}
	dx := x - m.finalX
	dy := y - m.finalY
	if (dx != 0 && dy != 0) || (dx == 0 && dy == 0) {
		return false
	}
	ux, uy := sign(dx), sign(dy)
	if m.pushes > 0 {
		last := m.displacements[len(m.displacements)-1]
		if last.dx != ux || last.dy != uy {
			return false
		}
	}
	for m.finalX != x || m.finalY != y {
		m.displacements = append(m.displacements, displacement{ux, uy, kindPush})
		m.finalX += ux
		m.finalY += uy
		m.pushes++
	}
	return true
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// Finish seals the move.
func (m *Move) Finish() { m.finished = true }

// Finished reports whether the move is sealed.
func (m *Move) Finished() bool { return m.finished }

// Empty reports whether the move records no displacements.
func (m *Move) Empty() bool { return len(m.displacements) == 0 }

// Len returns the number of elementary displacements.
func (m *Move) Len() int { return len(m.displacements) }

// Steps returns the number of non-push displacements.
func (m *Move) Steps() int { return len(m.displacements) - m.pushes }

// Pushes returns the number of push displacements.
func (m *Move) Pushes() int { return m.pushes }

// StartX returns the origin column.
func (m *Move) StartX() int { return m.startX }

// StartY returns the origin row.
func (m *Move) StartY() int { return m.startY }

// FinalX returns the endpoint column.
func (m *Move) FinalX() int { return m.finalX }

// FinalY returns the endpoint row.
func (m *Move) FinalY() int { return m.finalY }

// applyAt replays displacement i against lm using the level map primitive
// matching its kind.
func (m *Move) applyAt(lm *LevelMap, i int) bool {
	d := m.displacements[i]
	x := lm.XPos() + d.dx
	y := lm.YPos() + d.dy
	switch d.kind {
	case kindStep:
		return lm.Step(x, y)
	case kindPush:
		return lm.Push(x, y)
	case kindUnStep:
		return lm.UnStep(x, y)
	case kindUnPush:
		return lm.UnPush(x, y)
	default:
		return false
	}
}

// apply replays every displacement in order against lm, stopping at the
// first failure.
func (m *Move) apply(lm *LevelMap) bool {
	for i := range m.displacements {
		if !m.applyAt(lm, i) {
			return false
		}
	}
	return true
}

// Redo replays the move forward against lm, as History.Load does when
// restoring a recorded game.
func (m *Move) Redo(lm *LevelMap) bool {
	return m.apply(lm)
}

// Undo replays the move's displacements in reverse against lm, restoring the
// token and any pushed object to where they stood before the move and
// rolling the counters back. The commit flow relies on this: a fresh move is
// validated by applying it, undone, and then re-applied stepwise by the
// MoveSequence for display.
func (m *Move) Undo(lm *LevelMap) bool {
	return m.Inverse().apply(lm)
}

// Inverse returns the move that exactly reverses m, starting where m ended.
// A terminal push run becomes a leading pull (unpush displacements), and the
// steps retrace in reverse as unsteps. The result is forward-playable by a
// MoveSequence, which is how a deferred undo animates. The inverse of the
// inverse is the original move.
func (m *Move) Inverse() *Move {
	inv := &Move{
		startX:   m.finalX,
		startY:   m.finalY,
		finalX:   m.startX,
		finalY:   m.startY,
		finished: true,
	}
	inv.displacements = make([]displacement, 0, len(m.displacements))
	for i := len(m.displacements) - 1; i >= 0; i-- {
		d := m.displacements[i]
		var k moveKind
		switch d.kind {
		case kindStep:
			k = kindUnStep
		case kindPush:
			k = kindUnPush
			inv.pushes++
		case kindUnStep:
			k = kindStep
		case kindUnPush:
			k = kindPush
			inv.pushes++
		}
		inv.displacements = append(inv.displacements, displacement{-d.dx, -d.dy, k})
	}
	return inv
}

// directionLetter maps a unit delta to its lowercase history letter.
func directionLetter(dx, dy int) (byte, bool) {
	switch {
	case dx == -1 && dy == 0:
		return 'l', true
	case dx == 1 && dy == 0:
		return 'r', true
	case dx == 0 && dy == -1:
		return 'u', true
	case dx == 0 && dy == 1:
		return 'd', true
	default:
		return 0, false
	}
}

// letterDirection reverses directionLetter; push reports whether the letter
// was uppercase.
func letterDirection(c byte) (dx, dy int, push, ok bool) {
	push = c >= 'A' && c <= 'Z'
	switch c {
	case 'l', 'L':
		return -1, 0, push, true
	case 'r', 'R':
		return 1, 0, push, true
	case 'u', 'U':
		return 0, -1, push, true
	case 'd', 'D':
		return 0, 1, push, true
	default:
		return 0, 0, false, false
	}
}

// Text encodes the move as run-length direction segments: a direction letter
// followed by a repeat count, lowercase for steps and uppercase for pushes
// ("r2U1" is two steps right then one push right). Only forward moves are
// encoded; inverse moves are transient and never reach a history stream. The
// encoding round-trips byte for byte through parseMove.
func (m *Move) Text() string {
	var b strings.Builder
	i := 0
	for i < len(m.displacements) {
		d := m.displacements[i]
		letter, ok := directionLetter(d.dx, d.dy)
		if !ok {
			return ""
		}
		if d.kind == kindPush {
			letter -= 'a' - 'A'
		}
		count := 1
		for i+count < len(m.displacements) && m.displacements[i+count] == d {
			count++
		}
		b.WriteByte(letter)
		b.WriteString(strconv.Itoa(count))
		i += count
	}
	return b.String()
}

// parseMove rebuilds a sealed forward move from its Text encoding, anchored
// at origin (x, y). The origin is not part of the encoding; callers track it
// while walking a history stream.
func parseMove(x, y int, text string) (*Move, error) {
	m := NewMove(x, y)
	i := 0
	for i < len(text) {
		dx, dy, push, ok := letterDirection(text[i])
		if !ok {
			return nil, fmt.Errorf("bad direction %q at offset %d in %q", text[i], i, text)
		}
		i++
		start := i
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		if i == start {
			return nil, fmt.Errorf("missing repeat count at offset %d in %q", start, text)
		}
		count, err := strconv.Atoi(text[start:i])
		if err != nil || count < 1 {
			return nil, fmt.Errorf("bad repeat count %q in %q", text[start:i], text)
		}
		for n := 0; n < count; n++ {
			if push {
				if !m.Push(m.finalX+dx, m.finalY+dy) {
					return nil, fmt.Errorf("illegal push sequence in %q", text)
				}
			} else {
				if !m.Step(m.finalX+dx, m.finalY+dy) {
					return nil, fmt.Errorf("illegal step sequence in %q", text)
				}
			}
		}
	}
	if m.Empty() {
		return nil, fmt.Errorf("empty move in history stream")
	}
	m.Finish()
	return m, nil
}
