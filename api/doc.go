// Package api provides the HTTP REST surface for game sessions.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Collection listing and selection
//   - Progress and bookmark endpoints
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional body {"collection": "starter"})
//   - GET /api/sessions - List all sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/move - {"direction": "up", "mode": "push|step|pushrun"}
//   - POST /api/sessions/{id}/walk - {"x": 7, "y": 3}
//   - POST /api/sessions/{id}/undo - Take back the last move
//   - POST /api/sessions/{id}/redo - Replay an undone move
//   - POST /api/sessions/{id}/advance - Step pending playback one square
//   - POST /api/sessions/{id}/restart - Restart the current level
//   - GET /api/sessions/{id}/history - Move counters and the history stream
//
// Level Selection:
//   - PUT /api/sessions/{id}/level - {"level": 3}
//   - POST /api/sessions/{id}/level/next - Advance (requires completion)
//   - POST /api/sessions/{id}/level/previous - Go back one level
//   - PUT /api/sessions/{id}/collection - {"collection": "workshop"}
//
// Progress and Bookmarks:
//   - GET /api/sessions/{id}/progress - Per-level completion for the collection
//   - PUT /api/sessions/{id}/bookmarks/{slot} - Save position to slot 1-10
//   - POST /api/sessions/{id}/bookmarks/{slot}/restore - Return to a bookmark
//   - GET /api/bookmarks - List occupied bookmark slots
//
// Collections:
//   - GET /api/collections - List available level collections
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Play operations return a move
// result: {"committed": true|false, "reason": "...", "game_state": {...}}.
// A rejected move (blocked push, empty undo stack) is not an HTTP error;
// the reason field says why nothing happened.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Unknown sessions, collections and bookmarks map to 404, bad input to
// 400, and locked levels to 409.
//
// WebSocket:
//
// GET /ws?session={id} upgrades to a WebSocket connection carrying live
// state updates for the session, and accepts the same play actions as
// the REST surface. See the transport/websocket package.
package api
