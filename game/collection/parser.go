package collection

import (
	"fmt"
	"strings"
)

// boardRunes are the symbols a level row may contain. Space, '-' and '_' all
// mean empty floor; the rest are walls, targets, objects and the token.
const boardRunes = "#@+$*. -_"

// isBoardLine reports whether a line is part of a level drawing: at least one
// wall and nothing but board symbols. Anything else (titles, comments, blank
// separators) ends the current level.
func isBoardLine(line string) bool {
	if !strings.ContainsRune(line, '#') {
		return false
	}
	for _, r := range line {
		if !strings.ContainsRune(boardRunes, r) {
			return false
		}
	}
	return true
}

// parseText splits collection text into levels and picks up an optional
// "Title:" header. Levels are maximal runs of board lines; everything between
// them (blank lines, ';' comments, metadata) is a separator. Returns an error
// when the text contains no levels at all.
func parseText(data []byte) (levels [][]string, title string, err error) {
	var current []string
	flush := func() {
		if len(current) > 0 {
			levels = append(levels, current)
			current = nil
		}
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if isBoardLine(line) {
			current = append(current, line)
			continue
		}
		flush()
		if title == "" {
			if t, ok := strings.CutPrefix(strings.TrimSpace(line), "Title:"); ok {
				title = strings.TrimSpace(t)
			}
		}
	}
	flush()

	if len(levels) == 0 {
		return nil, "", fmt.Errorf("no levels found")
	}
	return levels, title, nil
}
