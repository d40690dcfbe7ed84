// Package websocket provides the real-time transport for game sessions.
//
// The websocket package implements:
//   - Real-time bidirectional communication
//   - Session-aware WebSocket connections
//   - Automatic state broadcasting on changes
//   - Paced playback of committed moves when animation is enabled
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections, grouped by session ID. Each client connection is
// handled by a pair of goroutines that manage reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {"action": "move", "direction": "up", "mode": "push"}
//     or {"action": "walk", "x": 7, "y": 3}, plus undo, redo, restart
//     and state.
//   - Outgoing: {"session_id": "abc1", "event": "state_update",
//     "game_state": {...}} after each state change. Rejected actions
//     produce a "rejected" event carrying the reason; invalid input
//     produces an "error" event for the sending client only.
//
// Playback Pacing:
//
// When the hub is created with animation enabled, a committed move does not
// resolve instantly. The hub starts one pacing goroutine per session that
// advances the pending playback one square per frame and broadcasts every
// intermediate state, so all connected clients see the pusher slide.
//
// Usage:
//
//	hub := websocket.NewHub(gameService, true, 35*time.Millisecond)
//	go hub.Run()
//
//	// inside an HTTP handler, after verifying the session exists:
//	hub.ServeWS(w, r, sessionID)
//
// Concurrency:
//
// The hub loop owns the client registry; broadcasts from other goroutines
// are queued onto the hub's channel rather than touching the registry
// directly. Multiple clients can connect, disconnect, and send commands
// simultaneously without blocking each other.
package websocket
