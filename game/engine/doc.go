// Package engine provides the core game logic for the Sokoban game.
//
// The engine package implements the move-resolution machinery including:
//   - The cell grid with wall/target/object flags and the single token
//   - Elementary step and push legality and mutation rules
//   - Reversible Move records and the undo/redo History stack
//   - Breadth-first path search for click-to-walk navigation
//   - The MoveSequence player that replays a committed Move one cell at a time
//
// Core Types:
//
// Grid holds the raw cell state. LevelMap wraps a Grid with level metadata and
// the step/push primitives that keep the move and push counters. Move is a
// sealed, replayable record of one player action. History owns committed Moves
// and hands out deferred undo/redo Moves for playback. Game ties everything
// together the way an interactive frontend drives it: commit, then advance.
//
// Usage:
//
//	game, err := engine.NewGame(collection)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Push the token one cell to the right (shoving an object if present).
//	if game.Push(game.XPos()+1, game.YPos()) {
//		game.FinishPlayback()
//	}
//	if game.Completed() {
//		// level solved
//	}
//
// Game Rules:
//
// The player moves a single token on a rectangular grid, pushing one movable
// object at a time onto target squares. The level is completed when every
// target square holds an object. Moves are recorded in an undo/redo history
// and serialize to a compact text stream that replays byte-for-byte.
package engine
