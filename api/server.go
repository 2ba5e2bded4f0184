package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/battleship-online/game/engine"
	"github.com/wricardo/battleship-online/game/service"
	"github.com/wricardo/battleship-online/game/session"
)

// WebSocketHandler upgrades a request into a game connection
type WebSocketHandler interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Server represents the REST API server
type Server struct {
	service service.GameService
	ws      WebSocketHandler
	router  *mux.Router
}

// NewServer creates a new API server. ws may be nil when no socket endpoint
// should be exposed.
func NewServer(gameService service.GameService, ws WebSocketHandler) *Server {
	s := &Server{
		service: gameService,
		ws:      ws,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session introspection
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")

	// Rules and fleet catalog
	api.HandleFunc("/rules", s.handleRules).Methods("GET")
	api.HandleFunc("/fleet", s.handleFleet).Methods("GET")

	// WebSocket
	if s.ws != nil {
		s.router.HandleFunc("/ws", s.ws.ServeWS)
	}
}

// Handle mounts an extra handler at an exact path, ahead of the static files.
func (s *Server) Handle(path string, handler http.Handler, methods ...string) {
	route := s.router.Handle(path, handler)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
}

// ServeStatic serves files from dir for every path not matched by a route.
// It must be called after all Handle calls.
func (s *Server) ServeStatic(dir string) {
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
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

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Session Handlers

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "activity" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "activity"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastActivityAt, sessions[j].LastActivityAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// Rules Handlers

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListRules(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"active":  s.service.ActiveRules(r.Context()),
		"presets": presets,
	})
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"grid_size": engine.GridSize,
		"ships":     engine.Fleet,
	})
}
