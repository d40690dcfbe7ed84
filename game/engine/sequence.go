package engine

// MoveSequence plays a committed move against a level map one displacement
// per Next call, which is what lets a caller animate a multi-cell move at
// its own cadence. The sequence borrows the move; History keeps ownership.
//
// A sequence may be dropped at any point. Because every prefix of a move is
// itself legal, abandoning playback mid-way always leaves the map in a valid
// state and nothing needs rolling back.
type MoveSequence struct {
	move   *Move
	lm     *LevelMap
	cursor int
	state  sequenceState
	failed bool
}

type sequenceState uint8

const (
	seqIdle sequenceState = iota
	seqPlaying
	seqExhausted
)

// NewMoveSequence binds a sealed move to the map it will play against. The
// sequence starts out playing, or already exhausted when the move is empty.
func NewMoveSequence(m *Move, lm *LevelMap) *MoveSequence {
	s := &MoveSequence{move: m, lm: lm, state: seqPlaying}
	if m == nil || m.Empty() {
		s.state = seqExhausted
	}
	return s
}

// Playing reports whether displacements remain to be applied.
func (s *MoveSequence) Playing() bool { return s.state == seqPlaying }

// Exhausted reports whether playback has ended.
func (s *MoveSequence) Exhausted() bool { return s.state == seqExhausted }

// Failed reports whether playback stopped because a displacement would not
// apply, which only happens when the map was changed behind the sequence's
// back.
func (s *MoveSequence) Failed() bool { return s.failed }

// Next applies exactly one displacement to the level map and reports whether
// more remain. The final displacement is applied on the call that returns
// false; calling Next on an exhausted sequence is a no-op returning false.
func (s *MoveSequence) Next() bool {
	if s.state != seqPlaying {
		return false
	}
	if !s.move.applyAt(s.lm, s.cursor) {
		s.state = seqExhausted
		s.failed = true
		return false
	}
	s.cursor++
	if s.cursor >= s.move.Len() {
		s.state = seqExhausted
		return false
	}
	return true
}
