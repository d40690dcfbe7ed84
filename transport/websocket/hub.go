package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/KDE/skladnik/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// Message represents a state update sent to clients watching a session.
type Message struct {
	SessionID string             `json:"session_id"`
	GameState *service.GameState `json:"game_state,omitempty"`
	Event     string             `json:"event,omitempty"`
	Data      interface{}        `json:"data,omitempty"`
}

// Command is a client request received over the socket. Play actions mirror
// the REST surface so a client can drive a session over a single connection.
type Command struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
	Mode      string `json:"mode,omitempty"`
	X         int    `json:"x,omitempty"`
	Y         int    `json:"y,omitempty"`
}

// Client represents a websocket client connection
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients per session and broadcasts
// game state updates to them. When animation is enabled it also paces
// playback, stepping each session's pending moves on a fixed delay.
type Hub struct {
	// Registered clients grouped by session ID
	sessions map[string]map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	service service.GameService

	// Playback pacing. delay is the pause between animation frames;
	// drivers tracks which sessions have a pacing goroutine running.
	animate   bool
	delay     time.Duration
	drivers   map[string]bool
	driversMu sync.Mutex
}

// NewHub creates a new websocket hub. When animate is true, committed moves
// are played back one square at a time and delay sets the frame interval.
func NewHub(svc service.GameService, animate bool, delay time.Duration) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		service:    svc,
		animate:    animate,
		delay:      delay,
		drivers:    make(map[string]bool),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient adds a client to the appropriate session group
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true
	log.Printf("[WS] Client connected to session %s (%d clients)",
		client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from its session group
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}
			log.Printf("[WS] Client disconnected from session %s", client.sessionID)
		}
	}
}

// broadcastMessage sends a message to all clients in a session.
// Runs on the hub loop so it may touch the sessions map directly.
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.sessions[message.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, disconnect them
			close(client.send)
			delete(clients, client)
		}
	}
}

// BroadcastToSession queues a game state update for all clients of a session.
func (h *Hub) BroadcastToSession(sessionID string, state *service.GameState) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		GameState: state,
		Event:     "state_update",
	}
}

// BroadcastEvent queues a named event for all clients of a session.
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}
}

// PumpSession makes sure a pacing goroutine is stepping the session's
// pending playback. Call it after any committed operation while animation
// is enabled; it is a no-op when animation is off or a driver already runs.
func (h *Hub) PumpSession(sessionID string) {
	if !h.animate {
		return
	}
	h.driversMu.Lock()
	if h.drivers[sessionID] {
		h.driversMu.Unlock()
		return
	}
	h.drivers[sessionID] = true
	h.driversMu.Unlock()

	go h.drive(sessionID)
}

// drive steps a session's playback until it runs out of pending moves,
// broadcasting every intermediate frame.
func (h *Hub) drive(sessionID string) {
	defer func() {
		h.driversMu.Lock()
		delete(h.drivers, sessionID)
		h.driversMu.Unlock()
	}()

	for {
		if h.delay > 0 {
			time.Sleep(h.delay)
		}
		result, err := h.service.Advance(context.Background(), sessionID)
		if err != nil {
			log.Printf("[WS] Playback for session %s stopped: %v", sessionID, err)
			return
		}
		if result.Committed {
			h.BroadcastToSession(sessionID, result.GameState)
		}
		if !result.Committed || !result.GameState.Playing {
			return
		}
	}
}

// ServeWS handles websocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	// Send the current state so a fresh client can render immediately.
	if state, err := h.service.GetGameState(r.Context(), sessionID); err == nil {
		client.enqueue(&Message{SessionID: sessionID, GameState: state, Event: "state_update"})
	}
}

// enqueue serializes a message onto this client's send buffer. The message
// is dropped if the buffer is full; the write pump will catch up from the
// next broadcast.
func (c *Client) enqueue(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump reads commands from the websocket connection and applies them
// to the session through the game service.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Read error: %v", err)
			}
			break
		}
		c.handleCommand(data)
	}
}

// handleCommand dispatches one inbound command. Errors go back to the
// sending client only; successful actions are broadcast to the whole
// session so every watcher stays in sync.
func (c *Client) handleCommand(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.enqueue(&Message{SessionID: c.sessionID, Event: "error", Data: "malformed command"})
		return
	}

	ctx := context.Background()
	h := c.hub

	var result *service.MoveResult
	var state *service.GameState
	var err error

	switch cmd.Action {
	case "move":
		result, err = h.service.Move(ctx, c.sessionID, cmd.Direction, cmd.Mode)
	case "walk":
		result, err = h.service.Walk(ctx, c.sessionID, cmd.X, cmd.Y)
	case "undo":
		result, err = h.service.Undo(ctx, c.sessionID)
	case "redo":
		result, err = h.service.Redo(ctx, c.sessionID)
	case "restart":
		state, err = h.service.Restart(ctx, c.sessionID)
	case "state":
		state, err = h.service.GetGameState(ctx, c.sessionID)
		if err == nil {
			c.enqueue(&Message{SessionID: c.sessionID, GameState: state, Event: "state_update"})
			return
		}
	default:
		c.enqueue(&Message{SessionID: c.sessionID, Event: "error", Data: "unknown action"})
		return
	}

	if err != nil {
		c.enqueue(&Message{SessionID: c.sessionID, Event: "error", Data: err.Error()})
		return
	}

	if result != nil {
		state = result.GameState
		if !result.Committed {
			c.enqueue(&Message{SessionID: c.sessionID, Event: "rejected", Data: result.Reason})
		}
	}
	h.BroadcastToSession(c.sessionID, state)
	if result != nil && result.Committed {
		h.PumpSession(c.sessionID)
	}
}

// writePump writes messages to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
