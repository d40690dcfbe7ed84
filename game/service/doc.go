// Package service provides the business logic layer for the Sokoban server.
//
// The service package implements:
//   - Multi-session game management
//   - Collection loading and listing
//   - Move processing (walk, directional moves, undo/redo)
//   - Level progression with completion gating
//   - Bookmark slots and per-level progress tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// CollectionManager loads and lists level collections.
// ProgressStore records completed levels and bookmark slots.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, collection management, and
// business logic orchestration. Each session maintains its own engine.Game
// instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	collectionMgr, _ := collection.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, collectionMgr, nil, false)
//
//	// Create a new session on the default collection
//	sessionInfo, err := gameService.CreateSession(ctx, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, sessionInfo.ID, "up", service.ModePush)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Multiple sessions can run concurrently on different collections.
// Sessions track creation time and last access time, and are persisted as
// (collection, level, history) tuples that restore by replay.
package service
