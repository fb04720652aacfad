package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/service"
	"github.com/wricardo/rusty-world/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.WorldService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, in which case /ws is
// not served.
func NewServer(worldService service.WorldService, hub *websocket.Hub) *Server {
	s := &Server{
		service: worldService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// World
	api.HandleFunc("/world", s.handleWorldInfo).Methods("GET")
	api.HandleFunc("/world/height", s.handleHeight).Methods("GET")
	api.HandleFunc("/world/width", s.handleWidth).Methods("GET")
	api.HandleFunc("/world/frame", s.handleFrame).Methods("GET")
	api.HandleFunc("/world/snapshot", s.handleSnapshot).Methods("GET")
	api.HandleFunc("/world/save", s.handleSave).Methods("POST")

	// Robots
	api.HandleFunc("/robots", s.handleAddRobot).Methods("POST")
	api.HandleFunc("/robots", s.handleListRobots).Methods("GET")
	api.HandleFunc("/robots/{name}", s.handleGetRobot).Methods("GET")
	api.HandleFunc("/robots/{name}/move", s.handleMoveRobot).Methods("POST")

	// Tiles
	api.HandleFunc("/tiles", s.handleAddTile).Methods("POST")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}
}

// Handle mounts an extra handler, such as the MCP endpoint, on the router
func (s *Server) Handle(path string, handler http.Handler) {
	s.router.Handle(path, handler)
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

// respondServiceError maps the service error taxonomy onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTooFar):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// World Handlers

func (s *Server) handleWorldInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Info(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleHeight(w http.ResponseWriter, r *http.Request) {
	height, err := s.service.Height(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]uint32{"height": height})
}

func (s *Server) handleWidth(w http.ResponseWriter, r *http.Request) {
	width, err := s.service.Width(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]uint32{"width": width})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := s.service.Frame(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, frame.String())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Snapshot(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Save(r.Context()); err != nil {
		log.Printf("[SNAPSHOT] save requested over API failed: %v", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "World saved",
	})
}

// Robot Handlers

func (s *Server) handleAddRobot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	robot, err := s.service.AddRobot(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, robot)
}

func (s *Server) handleListRobots(w http.ResponseWriter, r *http.Request) {
	robots, err := s.service.ListRobots(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(robots),
		"robots": robots,
	})
}

func (s *Server) handleGetRobot(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	x, y, err := s.service.GetRobot(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name": name,
		"x":    x,
		"y":    y,
	})
}

func (s *Server) handleMoveRobot(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req struct {
		Direction string `json:"direction"`
		Step      int    `json:"step,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dir, err := engine.ParseDirection(req.Direction, req.Step)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.MoveRobot(r.Context(), name, dir)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Tile Handlers

func (s *Server) handleAddTile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tile string `json:"tile"`
		X    int32  `json:"x"`
		Y    int32  `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tile, err := s.service.AddTile(r.Context(), req.Tile, req.X, req.Y)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tile)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
