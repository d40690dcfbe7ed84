// Command validate provides a small CLI that validates level collection
// files before they ship. For each collection file it checks:
//   - The collection text parses and contains at least one level
//   - Every level loads: known symbols, exactly one pusher, balanced
//     objects and goals, dimensions within the engine limits
//   - Reachability: every object and goal sits inside the pusher's region
//   - No level starts with all objects already on goals
//
// It scans ../game/collection/levels by default, so running it from this
// directory validates the built-in collections; pass a directory argument
// to validate external level packs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/KDE/skladnik/game/collection"
	"github.com/KDE/skladnik/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateCollection loads and validates a single collection file. It parses
// the collection, loads every level through the engine, and runs the
// reachability analysis on each one.
func validateCollection(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := readCollectionData(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	id := collectionID(filePath)
	col, err := collection.Parse(id, id, data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid collection: %v", err))
		return result
	}

	minW, minH := engine.MaxWidth, engine.MaxHeight
	maxW, maxH := 0, 0
	totalObjects := 0

	for n := 0; n < col.LevelCount(); n++ {
		rows, err := col.Level(n)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Level %d: %v", n, err))
			continue
		}
		g, err := engine.ParseGrid(rows)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Level %d: %v", n, err))
			continue
		}

		levelResult := validateLevel(n, g)
		if !levelResult.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, levelResult.Errors...)

		if g.Width() < minW {
			minW = g.Width()
		}
		if g.Width() > maxW {
			maxW = g.Width()
		}
		if g.Height() < minH {
			minH = g.Height()
		}
		if g.Height() > maxH {
			maxH = g.Height()
		}
		totalObjects += countObjects(g)
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", col.Name()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Levels: %d", col.LevelCount()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid sizes: %dx%d to %dx%d", minW, minH, maxW, maxH))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Objects: %d", totalObjects))
		result.Errors = append(result.Errors, "✓ Reachability: every object and goal is in the pusher's region")
	}

	return result
}

// validateLevel runs the checks that need a loaded grid. The engine marks
// every cell reachable from the pusher as interior floor when it loads a
// level, so an object or goal outside that region can never take part in
// play; a level that starts with all objects on goals is equally broken
// content.
func validateLevel(n int, g *engine.Grid) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.IsFloor(x, y) {
				continue
			}
			if g.HasObject(x, y) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Level %d: object at (%d,%d) is sealed off from the pusher", n, x, y))
			}
			if g.IsTarget(x, y) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Level %d: goal at (%d,%d) is sealed off from the pusher", n, x, y))
			}
		}
	}

	if g.Completed() {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Level %d: starts already solved", n))
	}

	return result
}

func countObjects(g *engine.Grid) int {
	count := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.HasObject(x, y) {
				count++
			}
		}
	}
	return count
}

// readCollectionData returns the file contents, decompressing .zst payloads
// the same way the collection manager does.
func readCollectionData(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// collectionID strips the recognized extensions from the file name.
func collectionID(path string) string {
	id := filepath.Base(path)
	for _, ext := range []string{".zst", ".sok", ".xsb"} {
		id = strings.TrimSuffix(id, ext)
	}
	return id
}

// main scans the levels directory for collection files and validates each
// one, printing a concise report and exiting with non-zero status if any
// are invalid.
func main() {
	levelsDir := "../game/collection/levels"
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	var files []string
	for _, pattern := range []string{"*.xsb", "*.sok", "*.xsb.zst", "*.sok.zst"} {
		matches, err := filepath.Glob(filepath.Join(levelsDir, pattern))
		if err != nil {
			fmt.Printf("Error finding collection files: %v\n", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Printf("No collection files found under %s\n", levelsDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateCollection(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All collections are valid!")
	} else {
		fmt.Println("❌ Some collections have errors")
		os.Exit(1)
	}
}
