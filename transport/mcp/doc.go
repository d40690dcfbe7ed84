// Package mcp provides a Model Context Protocol interface to the puzzle server.
//
// The mcp package implements:
//   - MCP tool definitions for every game operation
//   - A thin client that proxies tool calls to the REST API
//   - Text rendering of boards, move results and progress for AI agents
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get the current board and counters
//   - move: Single directional move with push/step/pushrun modes
//   - walk: Route the pusher to a square without pushing anything
//   - undo, redo: Walk the move history in either direction
//   - restart: Restart the current level
//   - set_level, next_level: Navigate the collection
//   - move_history: Counters plus the recorded move stream
//   - progress: Per-level completion for the session's collection
//   - create_session, get_session, list_sessions: Session management
//   - list_collections: List available level collections
//   - game_instructions: Comprehensive rules and strategy notes
//
// Architecture:
//
// The client holds no game state of its own. Every tool call becomes an HTTP
// request against the REST API, so MCP agents and browser clients always see
// the same sessions. Move and walk take an optional "intent" argument that is
// ignored by the server; asking the agent to explain a move before making it
// measurably improves its play.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Solve levels autonomously
//   - Recover from mistakes through undo/redo
//   - Track collection progress across sessions
//   - Run multiple independent sessions
package mcp
