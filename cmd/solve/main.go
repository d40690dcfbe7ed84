// Command solve searches level collections for solutions. It runs a
// breadth-first search over push states, so the answers it finds use the
// fewest pushes possible, and every solution is replayed through the
// history loader before being reported.
//
// Usage:
//
//	solve -c starter -n 3
//	solve -c starter -a -timeout 10s
//	solve -f levels/custom.xsb.zst -n 0
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/KDE/skladnik/game/collection"
	"github.com/KDE/skladnik/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "solve",
		Usage: "find push-minimal level solutions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "collection",
				Aliases: []string{"c"},
				Value:   "starter",
				Usage:   "collection id to solve",
			},
			&cli.StringFlag{
				Name:  "levels",
				Usage: "directory with level collection files",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "solve a collection file directly instead of a managed collection",
			},
			&cli.IntFlag{
				Name:    "level",
				Aliases: []string{"n"},
				Value:   0,
				Usage:   "level number to solve",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "solve every level in the collection",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "time limit per level (0 to disable)",
			},
			&cli.IntFlag{
				Name:  "max-nodes",
				Value: 2_000_000,
				Usage: "search node limit per level (0 to disable)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	col, err := loadTarget(cmd)
	if err != nil {
		return err
	}

	maxNodes := int(cmd.Int("max-nodes"))
	timeout := cmd.Duration("timeout")

	if cmd.Bool("all") {
		solved := 0
		for n := 0; n < col.LevelCount(); n++ {
			if solveLevel(col, n, maxNodes, timeout) {
				solved++
			}
			fmt.Println()
		}
		fmt.Printf("Solved %d/%d levels\n", solved, col.LevelCount())
		return nil
	}

	n := int(cmd.Int("level"))
	if n < 0 || n >= col.LevelCount() {
		return fmt.Errorf("level %d out of range, collection %s has %d levels", n, col.ID(), col.LevelCount())
	}
	if !solveLevel(col, n, maxNodes, timeout) {
		return fmt.Errorf("level %d of %s not solved", n, col.ID())
	}
	return nil
}

// loadTarget resolves what to solve. A -file argument wins over the managed
// collection lookup.
func loadTarget(cmd *cli.Command) (engine.Collection, error) {
	if path := cmd.String("file"); path != "" {
		return loadFile(path)
	}
	mgr, err := collection.NewManager(cmd.String("levels"))
	if err != nil {
		return nil, err
	}
	return mgr.LoadCollection(cmd.String("collection"))
}

// loadFile reads a collection file straight from disk, decompressing .zst
// payloads the same way the collection manager does.
func loadFile(path string) (engine.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	id := filepath.Base(path)
	if strings.HasSuffix(id, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", id, err)
		}
		id = strings.TrimSuffix(id, ".zst")
	}
	id = strings.TrimSuffix(strings.TrimSuffix(id, ".xsb"), ".sok")
	return collection.Parse(id, id, data)
}

// solveLevel searches one level and prints the outcome. It returns true only
// when a solution was found and its replay check passed.
func solveLevel(col engine.Collection, n, maxNodes int, timeout time.Duration) bool {
	fmt.Printf("=== Level %d (collection %s) ===\n", n, col.ID())

	rows, err := col.Level(n)
	if err != nil {
		fmt.Printf("⚠️  Level failed to load: %v\n", err)
		return false
	}
	g, err := engine.ParseGrid(rows)
	if err != nil {
		fmt.Printf("⚠️  Level failed to parse: %v\n", err)
		return false
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	start := time.Now()
	sol, err := Solve(g, maxNodes, deadline)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		fmt.Printf("⚠️  %v (%s)\n", err, elapsed)
		return false
	}

	fmt.Printf("Solution: %d pushes, %d moves (%d states, %s)\n", sol.Pushes, sol.Moves, sol.Nodes, elapsed)
	fmt.Printf("Stream: %s\n", sol.Stream)

	if err := verify(col, n, sol.Stream); err != nil {
		fmt.Printf("⚠️  Replay check failed: %v\n", err)
		return false
	}
	fmt.Println("✅ Replay check passed")
	return true
}

// verify replays the stream through the history loader on a fresh level and
// checks that it ends completed, proving the solution is accepted by the
// same code path that restores saved games.
func verify(col engine.Collection, n int, stream string) error {
	lm := engine.NewLevelMap()
	if err := lm.ChangeCollection(col); err != nil {
		return err
	}
	if err := lm.SetLevel(n); err != nil {
		return err
	}
	if err := engine.NewHistory().Load(lm, stream); err != nil {
		return err
	}
	if !lm.Completed() {
		return fmt.Errorf("replay ends with %d objects off goals", lm.Map().ObjectsLeft())
	}
	return nil
}
