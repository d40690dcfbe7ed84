// Command analyze prints quick, human-readable heuristics about level
// collections. It summarizes level counts, dimensions and object totals,
// lists levels that fail to parse, and highlights objects that start in
// corner deadlocks, where no sequence of pushes can ever free them.
package main

import (
	"fmt"
	"os"

	"github.com/KDE/skladnik/game/collection"
	"github.com/KDE/skladnik/game/engine"
)

// GridPoint denotes a level coordinate used during analysis output.
type GridPoint struct {
	X, Y int
}

// brokenLevel records a level that could not be loaded or parsed.
type brokenLevel struct {
	level int
	err   error
}

func main() {
	levelsDir := ""
	if len(os.Args) > 1 {
		levelsDir = os.Args[1]
	}

	mgr, err := collection.NewManager(levelsDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	infos, err := mgr.ListCollections()
	if err != nil {
		fmt.Printf("Error listing collections: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.ID)
		col, err := mgr.LoadCollection(info.ID)
		if err != nil {
			fmt.Printf("Error loading collection: %v\n", err)
			continue
		}
		analyzeCollection(col)
	}
}

func analyzeCollection(col engine.Collection) {
	fmt.Printf("Name: %s\n", col.Name())
	fmt.Printf("Levels: %d\n", col.LevelCount())

	minW, minH := engine.MaxWidth, engine.MaxHeight
	maxW, maxH := 0, 0
	totalObjects := 0
	var broken []brokenLevel
	var trivial []int
	deadlocks := map[int][]GridPoint{}
	var deadlockOrder []int

	for n := 0; n < col.LevelCount(); n++ {
		rows, err := col.Level(n)
		if err != nil {
			broken = append(broken, brokenLevel{n, err})
			continue
		}
		g, err := engine.ParseGrid(rows)
		if err != nil {
			broken = append(broken, brokenLevel{n, err})
			continue
		}

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

		if g.Completed() {
			trivial = append(trivial, n)
		}
		if points := cornerDeadlocks(g); len(points) > 0 {
			deadlocks[n] = points
			deadlockOrder = append(deadlockOrder, n)
		}
	}

	if maxW > 0 {
		fmt.Printf("Dimensions: %dx%d to %dx%d\n", minW, minH, maxW, maxH)
		fmt.Printf("Total Objects: %d\n", totalObjects)
	}

	if len(broken) > 0 {
		fmt.Printf("⚠️  WARNING: %d levels failed to load!\n", len(broken))
		for i, b := range broken {
			if i < 5 { // Show first 5 broken levels
				fmt.Printf("   Level %d: %v\n", b.level, b.err)
			}
		}
		if len(broken) > 5 {
			fmt.Printf("   ... and %d more\n", len(broken)-5)
		}
	} else {
		fmt.Printf("✅ All levels parse cleanly\n")
	}

	if len(deadlockOrder) > 0 {
		fmt.Printf("⚠️  CRITICAL: %d levels have objects starting in corner deadlocks!\n", len(deadlockOrder))
		for _, n := range deadlockOrder {
			for _, p := range deadlocks[n] {
				fmt.Printf("   Level %d: object at (%d, %d) can never reach a goal\n", n, p.X, p.Y)
			}
		}
	} else if len(broken) < col.LevelCount() {
		fmt.Printf("✅ No object starts in a corner deadlock\n")
	}

	if len(trivial) > 0 {
		fmt.Printf("Note: %d levels start already solved: %v\n", len(trivial), trivial)
	}
}

// countObjects returns the number of objects in the level, on goals or not.
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

// cornerDeadlocks lists objects off their goals that are blocked on both
// axes by walls. Such an object can never be pushed again, so the level
// cannot be solved. Out-of-bounds cells read as walls, which makes the
// border cases come out right.
func cornerDeadlocks(g *engine.Grid) []GridPoint {
	var points []GridPoint
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !g.HasObject(x, y) || g.IsTarget(x, y) {
				continue
			}
			vertical := g.IsWall(x, y-1) || g.IsWall(x, y+1)
			horizontal := g.IsWall(x-1, y) || g.IsWall(x+1, y)
			if vertical && horizontal {
				points = append(points, GridPoint{x, y})
			}
		}
	}
	return points
}
