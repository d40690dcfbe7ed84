package engine

// Grid size limits. Level data larger than this is rejected as malformed.
const (
	MaxWidth  = 50
	MaxHeight = 50
)

// Level symbols understood by ParseGrid, following the common Sokoban text
// notation: walls, targets, objects, the token, and the combined
// object-on-target / token-on-target forms.
const (
	SymbolWall           = '#'
	SymbolFloor          = ' '
	SymbolTarget         = '.'
	SymbolObject         = '$'
	SymbolObjectOnTarget = '*'
	SymbolToken          = '@'
	SymbolTokenOnTarget  = '+'
)

// directions is the neighbor order used everywhere cells are expanded: up,
// down, left, right. Path search depends on this order for deterministic
// tie-breaking, so it must not change.
var directions = [4]struct{ dx, dy int }{
	{0, -1},
	{0, 1},
	{-1, 0},
	{1, 0},
}

// tile is the per-cell flag set. The token is not a tile flag: its position is
// held once by the Grid, which makes token uniqueness structural.
type tile uint8

const (
	tileWall tile = 1 << iota
	tileTarget
	tileObject
	tileFloor
)

// Collection supplies level data to a LevelMap. Implementations live outside
// the engine (file packs, embedded packs); the engine only consumes symbol
// rows. An empty ID marks a collection that cannot be bookmarked.
type Collection interface {
	ID() string
	Name() string
	LevelCount() int
	Level(n int) ([]string, error)
}

// DirectionDelta maps a direction name ("up", "down", "left", "right") to its
// unit delta. ok is false for any other string.
func DirectionDelta(direction string) (dx, dy int, ok bool) {
	switch direction {
	case "up":
		return 0, -1, true
	case "down":
		return 0, 1, true
	case "left":
		return -1, 0, true
	case "right":
		return 1, 0, true
	default:
		return 0, 0, false
	}
}

// DirectionName maps a unit delta back to its direction name. ok is false for
// anything that is not one of the four orthogonal unit deltas.
func DirectionName(dx, dy int) (string, bool) {
	switch {
	case dx == 0 && dy == -1:
		return "up", true
	case dx == 0 && dy == 1:
		return "down", true
	case dx == -1 && dy == 0:
		return "left", true
	case dx == 1 && dy == 0:
		return "right", true
	default:
		return "", false
	}
}
