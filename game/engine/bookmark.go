package engine

import "fmt"

// Bookmark freezes a position in a game: the collection, the level, the move
// counter at capture time and the full history stream. Restoring replays the
// stream against a freshly loaded level, so a bookmark is only as large as
// the moves made, not the grid.
type Bookmark struct {
	Collection string `json:"collection"`
	Level      int    `json:"level"`
	Moves      int    `json:"moves"`
	History    string `json:"history"`
}

// MakeBookmark captures the game's current position. Any active playback is
// resolved first so the recorded history matches the map exactly. Games on a
// broken level or on a collection without an ID cannot be bookmarked.
func MakeBookmark(g *Game) (Bookmark, error) {
	c := g.lm.Collection()
	if c == nil || c.ID() == "" {
		return Bookmark{}, fmt.Errorf("collection cannot be bookmarked")
	}
	if !g.lm.GoodLevel() {
		return Bookmark{}, fmt.Errorf("cannot bookmark a broken level")
	}
	g.FinishPlayback()
	return Bookmark{
		Collection: c.ID(),
		Level:      g.lm.Level(),
		Moves:      g.lm.TotalMoves(),
		History:    g.hist.Save(),
	}, nil
}

// GoToBookmark restores a captured position. The bookmark must belong to the
// game's current collection; the replay is staged on a scratch map and
// verified against the recorded move count before anything is swapped in, so
// a corrupt bookmark leaves the game exactly as it was.
func (g *Game) GoToBookmark(bm Bookmark) error {
	c := g.lm.Collection()
	if c == nil || c.ID() != bm.Collection {
		return fmt.Errorf("bookmark belongs to collection %q", bm.Collection)
	}

	stage := NewLevelMap()
	stage.collection = c
	if err := stage.SetLevel(bm.Level); err != nil {
		return fmt.Errorf("bookmark level: %w", err)
	}
	hist := NewHistory()
	if err := hist.Load(stage, bm.History); err != nil {
		return fmt.Errorf("bookmark history: %w", err)
	}
	if stage.TotalMoves() != bm.Moves {
		return fmt.Errorf("bookmark records %d moves but replays %d", bm.Moves, stage.TotalMoves())
	}

	g.seq = nil
	g.lm = stage
	g.hist = hist
	return nil
}
