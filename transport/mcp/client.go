package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/KDE/skladnik/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Skladnik",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Skladnik - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Push every object ($) onto a goal square (.). The pusher (@) can push exactly one object at a time and can never pull.

AVAILABLE TOOLS:
- game_state: Get current board and counters
- move: Single move (up/down/left/right) with a mode - requires intent explanation
- walk: Route the pusher to a square without pushing anything - requires intent explanation
- undo / redo: Take back or replay moves
- restart: Restart the current level
- set_level / next_level: Navigate levels (next requires completion)
- move_history: Counters plus the recorded move stream
- progress: Per-level completion for the session's collection
- create_session / get_session / list_sessions: Session management
- list_collections: List available level collections
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on move/walk tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional collection selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "ID of the level collection to play (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the pusher in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"push", "step", "pushrun"},
					"description": "push: one square, shoving an object if present. step: run until something is in the way, never pushing. pushrun: run and keep pushing as far as possible. Default is push.",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "walk",
		Description: "Walk the pusher to a square, routing around objects without pushing any",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the target square (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the target square (0-based)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this walk (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleWalk)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Take back the last move or push",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "redo",
		Description: "Replay the last undone move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRedo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Restart the current level from scratch",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	// Level navigation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_level",
		Description: "Jump to a specific level in the current collection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"level": map[string]interface{}{
					"type":        "integer",
					"description": "Level number (0-based)",
				},
			},
			Required: []string{"session_id", "level"},
		},
	}, c.handleSetLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_level",
		Description: "Advance to the next level (the current one must be solved)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNextLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move counters and the recorded move stream for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "progress",
		Description: "Get per-level completion and best results for the session's collection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleProgress)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_collections",
		Description: "List available level collections",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListCollections)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	collectionID, _ := args["collection"].(string)

	body := map[string]string{}
	if collectionID != "" {
		body["collection"] = collectionID
	}

	var info service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nCollection: %s\n", info.ID, info.Collection)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Collection: %s, Level: %d, Created: %s)\n",
			s.ID, s.Collection, s.Level, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state service.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	mode, _ := args["mode"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]string{
		"direction": direction,
	}
	if mode != "" {
		body["mode"] = mode
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleWalk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]int{
		"x": int(x),
		"y": int(y),
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/walk", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/undo", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleRedo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/redo", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string             `json:"message"`
		State   *service.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/restart", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSetLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	level, _ := args["level"].(float64)

	body := map[string]int{"level": int(level)}

	var state service.GameState
	err := c.apiCall("PUT", fmt.Sprintf("/api/sessions/%s/level", sessionID), body, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleNextLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state service.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/level/next", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history", sessionID), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var progress service.ProgressInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/progress", sessionID), nil, &progress)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatProgress(&progress)), nil
}

func (c *Client) handleListCollections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count       int                       `json:"count"`
		Collections []*service.CollectionInfo `json:"collections"`
	}

	err := c.apiCall("GET", "/api/collections", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Collections:\n\n"
	for _, col := range response.Collections {
		result += fmt.Sprintf("• %s: %s (%d levels, %s)\n", col.ID, col.Name, col.Levels, col.Source)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎮 Skladnik - Complete Instructions

GAME OBJECTIVE:
Push every object ($) onto a goal square (.). The level is solved the moment no object is left off a goal.

GAME MECHANICS:
• The pusher moves one square at a time in the four cardinal directions.
• The pusher can push exactly ONE object at a time. Two objects in a row never move.
• Objects can only be PUSHED, never pulled. This is the heart of every puzzle.
• Moves count every square the pusher travels; pushes count only the moves that shoved an object.

BOARD LEGEND:
• # - Wall (impassable)
• @ - Pusher (your position)
• + - Pusher standing on a goal square
• $ - Object that still needs to reach a goal
• * - Object already sitting on a goal
• . - Empty goal square
• (space) - Empty floor

MOVE MODES:
• push (default): one square in the given direction, shoving an object if one is there
• step: run in the given direction until something is in the way, never pushing
• pushrun: run in the given direction, pushing an object as far as it will go

WALKING:
The walk tool routes the pusher to any reachable square without disturbing a single
object. Use it to get behind an object before pushing. A square an object sits on is
not a valid walk target.

🤖 AI AGENTS - CRITICAL SUCCESS STRATEGIES:

⚠️ DEADLOCK AWARENESS (MOST COMMON FAILURE POINT):
A single careless push can make the level unsolvable:
1. An object pushed into a corner (walls on two adjacent sides) can NEVER move again.
   If that corner is not a goal, the level is lost.
2. An object pushed flat against a wall can only slide along that wall. If no goal
   lies along that wall, the object is stranded.
3. Four objects packed into a 2x2 square are all frozen forever.
Before EVERY push ask: could I still get behind this object afterwards, and does its
new square keep a path to some goal?

🧭 THINK IN PUSH PATHS, NOT WALK PATHS:
To push an object somewhere you must stand on the opposite side. Plan where the
PUSHER needs to be, square by square, for the whole push sequence. The walk tool
gets you to the right side cheaply.

🔄 UNDO IS FREE:
Every move is recorded and undo/redo walks the full history. When an experiment goes
wrong, undo rather than restart; redo replays what you took back. Solved levels stay
solved in the progress store, so exploring costs nothing.

📊 ORDER MATTERS:
Work out which object must reach its goal FIRST. Goals near corners usually need to
be filled early, before the objects that would block access. When stuck, solve the
level backwards: from the solved position, which push was last?

MOVEMENT COMMANDS:
- move with up/down/left/right and an optional mode
- walk with x/y coordinates (0-based, x is the column)
- undo / redo - walk the move history
- restart - back to the level's starting position

LEVEL NAVIGATION:
- set_level jumps anywhere in the collection
- next_level requires the current level to be solved (now or in a past session)
- progress shows which levels are done and the best recorded results

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent state, level and collection
- Sessions survive server restarts; finished levels are remembered per collection

Remember: the puzzle is never about reaching a square, it is about reaching it FROM
THE RIGHT SIDE. Plan pushes backwards from the goals, watch for corners, and undo
early. Good luck in the warehouse! 📦`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCollection: %s (%s)\nLevel: %d | Moves: %d | Pushes: %d | Solved: %v\nCreated: %s",
		info.ID, info.Collection, info.CollectionName,
		info.Level, info.Moves, info.Pushes, info.Completed,
		info.CreatedAt.Format("2006-01-02 15:04:05"))
}

func formatGameState(state *service.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Collection: %s | Level: %d/%d | Moves: %d | Pushes: %d | Objects left: %d\n\n",
		state.Collection, state.Level+1, state.LevelCount,
		state.Moves, state.Pushes, state.ObjectsLeft))

	if state.Broken {
		result.WriteString("Level unavailable")
		if state.Message != "" {
			result.WriteString(fmt.Sprintf(": %s", state.Message))
		}
		return result.String()
	}

	for _, row := range state.Board {
		result.WriteString(row)
		result.WriteString("\n")
	}

	result.WriteString(fmt.Sprintf("\nPusher at (%d,%d)", state.TokenX, state.TokenY))
	if state.CanUndo {
		result.WriteString(" | undo available")
	}
	if state.CanRedo {
		result.WriteString(" | redo available")
	}

	if state.Completed {
		result.WriteString("\n\n🎉 LEVEL SOLVED!")
	}
	if state.Playing {
		result.WriteString("\n(playback in progress)")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Committed {
		response = "✓ Move committed\n"
	} else {
		response = fmt.Sprintf("✗ Nothing happened: %s\n", result.Reason)
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Moves played: %d", history.Moves)
	if history.Redoable > 0 {
		result += fmt.Sprintf(" (%d undone, redo available)", history.Redoable)
	}
	result += fmt.Sprintf("\nStream: %s\n", history.Stream)
	result += "\nThe stream uses u/d/l/r per move, uppercase when an object was pushed;\n"
	result += "a count follows repeated moves, * ends a move, and @ marks where you are\n"
	result += "in the undo history."
	return result
}

func formatProgress(progress *service.ProgressInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Progress for collection %s:\n\n", progress.Collection))
	solved := 0
	for _, lp := range progress.Levels {
		if lp.Completed {
			solved++
			b.WriteString(fmt.Sprintf("• Level %d: solved (best %d moves / %d pushes)\n",
				lp.Level, lp.BestMoves, lp.BestPushes))
		} else {
			b.WriteString(fmt.Sprintf("• Level %d: unsolved\n", lp.Level))
		}
	}
	b.WriteString(fmt.Sprintf("\n%d/%d levels solved", solved, len(progress.Levels)))
	return b.String()
}
