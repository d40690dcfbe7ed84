package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/KDE/skladnik/game/collection"
	"github.com/KDE/skladnik/game/service"
	"github.com/KDE/skladnik/game/session"
	"github.com/KDE/skladnik/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// API routes with clean REST patterns
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/walk", s.handleWalk).Methods("POST")
	api.HandleFunc("/sessions/{id}/undo", s.handleUndo).Methods("POST")
	api.HandleFunc("/sessions/{id}/redo", s.handleRedo).Methods("POST")
	api.HandleFunc("/sessions/{id}/advance", s.handleAdvance).Methods("POST")
	api.HandleFunc("/sessions/{id}/restart", s.handleRestart).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Level selection
	api.HandleFunc("/sessions/{id}/level", s.handleSetLevel).Methods("PUT")
	api.HandleFunc("/sessions/{id}/level/next", s.handleNextLevel).Methods("POST")
	api.HandleFunc("/sessions/{id}/level/previous", s.handlePreviousLevel).Methods("POST")
	api.HandleFunc("/sessions/{id}/collection", s.handleChangeCollection).Methods("PUT")

	// Progress and bookmarks
	api.HandleFunc("/sessions/{id}/progress", s.handleGetProgress).Methods("GET")
	api.HandleFunc("/sessions/{id}/bookmarks/{slot}", s.handleSetBookmark).Methods("PUT")
	api.HandleFunc("/sessions/{id}/bookmarks/{slot}/restore", s.handleRestoreBookmark).Methods("POST")
	api.HandleFunc("/bookmarks", s.handleListBookmarks).Methods("GET")

	// Collections
	api.HandleFunc("/collections", s.handleListCollections).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errStatus maps a service error to an HTTP status code.
func errStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, collection.ErrCollectionNotFound),
		errors.Is(err, service.ErrBookmarkNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLevelLocked):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoProgressStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publish pushes a move result to websocket watchers. A committed result may
// have left playback pending, so the pacing driver is kicked as well.
func (s *Server) publish(sessionID string, result *service.MoveResult) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToSession(sessionID, result.GameState)
	if result.Committed {
		s.hub.PumpSession(sessionID)
	}
}

func (s *Server) publishState(sessionID string, state *service.GameState) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToSession(sessionID, state)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string `json:"collection,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateSession(r.Context(), req.Collection)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	log.Printf("[SESSION] created %s collection=%s", info.ID, info.Collection)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Session " + sessionID + " deleted",
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
		Mode      string `json:"mode,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, req.Direction, req.Mode)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publish(sessionID, result)

	// Compact server log for observability
	st := result.GameState
	if result.Committed {
		log.Printf("[MOVE] session=%s %s/%s token=(%d,%d) moves=%d pushes=%d done=%v",
			sessionID, req.Direction, req.Mode, st.TokenX, st.TokenY, st.Moves, st.Pushes, st.Completed)
	} else {
		log.Printf("[MOVE] session=%s %s/%s REJECTED reason=%s",
			sessionID, req.Direction, req.Mode, result.Reason)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleWalk(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Walk(r.Context(), sessionID, req.X, req.Y)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publish(sessionID, result)

	if result.Committed {
		log.Printf("[WALK] session=%s to=(%d,%d) moves=%d", sessionID, req.X, req.Y, result.GameState.Moves)
	} else {
		log.Printf("[WALK] session=%s to=(%d,%d) REJECTED reason=%s", sessionID, req.X, req.Y, result.Reason)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Undo(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publish(sessionID, result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Redo(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publish(sessionID, result)
	respondJSON(w, http.StatusOK, result)
}

// handleAdvance steps pending playback by one square. Clients that render
// animation themselves call this instead of relying on the websocket pacer.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Advance(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publishState(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Restart(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publishState(sessionID, state)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Level restarted",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	history, err := s.service.GetHistory(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Level Handlers

func (s *Server) handleSetLevel(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Level int `json:"level"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.SetLevel(r.Context(), sessionID, req.Level)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publishState(sessionID, state)
	log.Printf("[LEVEL] session=%s set level=%d", sessionID, req.Level)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleNextLevel(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.NextLevel(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publishState(sessionID, state)
	log.Printf("[LEVEL] session=%s next level=%d", sessionID, state.Level)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handlePreviousLevel(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.PreviousLevel(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publishState(sessionID, state)
	log.Printf("[LEVEL] session=%s previous level=%d", sessionID, state.Level)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleChangeCollection(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Collection string `json:"collection"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.ChangeCollection(r.Context(), sessionID, req.Collection)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publishState(sessionID, state)
	log.Printf("[LEVEL] session=%s collection=%s", sessionID, req.Collection)
	respondJSON(w, http.StatusOK, state)
}

// Progress and Bookmark Handlers

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	progress, err := s.service.GetProgress(r.Context(), sessionID)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handleSetBookmark(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	slot, err := strconv.Atoi(vars["slot"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid bookmark slot")
		return
	}

	info, err := s.service.SetBookmark(r.Context(), sessionID, slot)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	log.Printf("[BOOKMARK] session=%s saved slot=%d level=%d", sessionID, slot, info.Level)
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleRestoreBookmark(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	slot, err := strconv.Atoi(vars["slot"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid bookmark slot")
		return
	}

	state, err := s.service.GoToBookmark(r.Context(), sessionID, slot)
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	s.publishState(sessionID, state)
	log.Printf("[BOOKMARK] session=%s restored slot=%d level=%d", sessionID, slot, state.Level)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := s.service.ListBookmarks(r.Context())
	if err != nil {
		respondError(w, errStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(bookmarks),
		"bookmarks": bookmarks,
	})
}

// Collection Handlers

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.service.ListCollections(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(collections),
		"collections": collections,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
