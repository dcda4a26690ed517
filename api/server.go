package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/wricardo/letterboxed/game/service"
	"github.com/wricardo/letterboxed/transport/websocket"
)

// Server represents the REST API server.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	log     zerolog.Logger
}

// NewServer creates a new API server. The hub may be nil when WebSocket
// fan-out is not wanted.
func NewServer(gameService service.GameService, hub *websocket.Hub, log zerolog.Logger) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		log:     log,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Puzzle and player data
	api.HandleFunc("/daily", s.handleDaily).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/dictionary", s.handleDictionary).Methods("GET")
	api.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	// Game operations, keyed by puzzle date
	api.HandleFunc("/sessions/{date}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/sessions/{date}/select", s.handleSelect).Methods("POST")
	api.HandleFunc("/sessions/{date}/delete", s.handleDelete).Methods("POST")
	api.HandleFunc("/sessions/{date}/submit", s.handleSubmit).Methods("POST")
	api.HandleFunc("/sessions/{date}/restart", s.handleRestart).Methods("POST")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler.
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

// respondServiceError maps service failures onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrInvalidDate) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

// Puzzle Handlers

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	var info *service.PuzzleInfo
	var err error
	if date == "" {
		info, err = s.service.DailyPuzzle(r.Context())
	} else {
		info, err = s.service.PuzzleForDate(r.Context(), date)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	words, err := s.service.DictionaryWords(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(words),
		"words": words,
	})
}

// Game Operation Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	state, err := s.service.GetState(r.Context(), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	var sel service.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if sel.Char == "" && (sel.Side == nil || sel.Index == nil) {
		respondError(w, http.StatusBadRequest, "Selection requires a char or a side and index")
		return
	}

	result, err := s.service.SelectLetter(r.Context(), date, sel)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.respondPlayResult(w, result)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	result, err := s.service.DeleteLetter(r.Context(), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.respondPlayResult(w, result)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	result, err := s.service.SubmitWord(r.Context(), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Success {
		s.log.Info().Str("date", date).Str("word", result.Word).
			Bool("won", result.Won).Msg("word accepted")
	}
	s.respondPlayResult(w, result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	state, err := s.service.Restart(r.Context(), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(state)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game restarted",
		"state":   state,
	})
}

// respondPlayResult writes a PlayResult and fans accepted events out to
// WebSocket subscribers. Rejections carry the same body under 422.
func (s *Server) respondPlayResult(w http.ResponseWriter, result *service.PlayResult) {
	if !result.Success {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	s.broadcast(result.State)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) broadcast(state *service.StateInfo) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastState(state.Date, state)
	}
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket disabled", http.StatusServiceUnavailable)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.service.Today()
	}

	// Materialize the session so subscribers always watch a live game
	if _, err := s.service.GetState(r.Context(), date); err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	s.hub.ServeWS(w, r, date)
}

// Health check

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
