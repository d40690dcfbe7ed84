package engine

import (
	"fmt"
	"strings"
)

// History is the undo/redo record of committed moves. past holds applied
// moves in commit order; future holds undone moves, most recently undone
// last. Committing a new move truncates the future, as undo stacks do.
//
// Undo and redo come in two flavors. The immediate forms replay a whole move
// against the level map at once and are used when restoring a recorded game.
// The deferred forms only shuffle the stacks and hand back a forward-playable
// Move (the inverse, for undo) for a MoveSequence to animate; the map is
// untouched until the sequence runs.
type History struct {
	past   []*Move
	future []*Move
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Add commits a sealed move, discarding any redoable tail.
func (h *History) Add(m *Move) {
	h.future = h.future[:0]
	h.past = append(h.past, m)
}

// Clear discards everything.
func (h *History) Clear() {
	h.past = h.past[:0]
	h.future = h.future[:0]
}

// MoveCount returns the number of applied moves.
func (h *History) MoveCount() int { return len(h.past) }

// RedoCount returns the number of undone moves available for redo.
func (h *History) RedoCount() int { return len(h.future) }

// Empty reports whether the history holds no moves at all.
func (h *History) Empty() bool { return len(h.past) == 0 && len(h.future) == 0 }

// DeferUndo pops the most recent move over to the redo side and returns its
// inverse, sealed and ready for a MoveSequence to play forward. The level
// map is not touched here; it is the caller's job to actually run the
// returned move. Returns nil with no state change when there is nothing to
// undo.
func (h *History) DeferUndo() *Move {
	if len(h.past) == 0 {
		return nil
	}
	m := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, m)
	return m.Inverse()
}

// DeferRedo moves the next redoable move back to the applied side and
// returns it for forward playback. Returns nil with no state change when
// there is nothing to redo.
func (h *History) DeferRedo() *Move {
	if len(h.future) == 0 {
		return nil
	}
	m := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, m)
	return m
}

// Undo immediately replays the most recent move backwards against lm. The
// stacks only change when the replay succeeds.
func (h *History) Undo(lm *LevelMap) bool {
	if len(h.past) == 0 {
		return false
	}
	m := h.past[len(h.past)-1]
	if !m.Undo(lm) {
		return false
	}
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, m)
	return true
}

// Redo immediately replays the next redoable move forward against lm. The
// stacks only change when the replay succeeds.
func (h *History) Redo(lm *LevelMap) bool {
	if len(h.future) == 0 {
		return false
	}
	m := h.future[len(h.future)-1]
	if !m.Redo(lm) {
		return false
	}
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, m)
	return true
}

// Save encodes the whole history as a text stream: each move's run-length
// encoding terminated by '*', applied moves first, then one '@' cursor mark,
// then the redoable moves in redo order. The stream round-trips byte for
// byte through Load; an empty history saves as "@".
func (h *History) Save() string {
	var b strings.Builder
	for _, m := range h.past {
		b.WriteString(m.Text())
		b.WriteByte('*')
	}
	b.WriteByte('@')
	for i := len(h.future) - 1; i >= 0; i-- {
		b.WriteString(h.future[i].Text())
		b.WriteByte('*')
	}
	return b.String()
}

// Load replaces the history with the stream s, replaying every applied move
// against lm as it parses so the map ends up at the recorded cursor
// position. Redoable moves are parsed but not applied. On any parse or
// replay failure the history is cleared and an error returned; lm may be
// left partially replayed, so callers restoring untrusted streams should
// stage onto a scratch map first.
func (h *History) Load(lm *LevelMap, s string) error {
	h.Clear()
	at := strings.IndexByte(s, '@')
	if at < 0 {
		return fmt.Errorf("history stream missing the cursor mark")
	}

	pastTexts, err := splitMoves(s[:at])
	if err != nil {
		return err
	}
	futureTexts, err := splitMoves(s[at+1:])
	if err != nil {
		return err
	}

	for _, text := range pastTexts {
		m, err := parseMove(lm.XPos(), lm.YPos(), text)
		if err != nil {
			h.Clear()
			return err
		}
		if !m.Redo(lm) {
			h.Clear()
			return fmt.Errorf("recorded move %q does not replay on this level", text)
		}
		h.past = append(h.past, m)
	}

	// Future moves chain forward from the cursor without touching the map.
	x, y := lm.XPos(), lm.YPos()
	parsed := make([]*Move, 0, len(futureTexts))
	for _, text := range futureTexts {
		m, err := parseMove(x, y, text)
		if err != nil {
			h.Clear()
			return err
		}
		parsed = append(parsed, m)
		x, y = m.FinalX(), m.FinalY()
	}
	for i := len(parsed) - 1; i >= 0; i-- {
		h.future = append(h.future, parsed[i])
	}
	return nil
}

// splitMoves cuts a stream section into per-move encodings. Every move must
// be terminated by '*'.
func splitMoves(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	if s[len(s)-1] != '*' {
		return nil, fmt.Errorf("history stream section %q not terminated by '*'", s)
	}
	parts := strings.Split(s[:len(s)-1], "*")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("empty move in history stream section %q", s)
		}
	}
	return parts, nil
}
