// Package server exposes the nimber engine over HTTP: one-shot queries for
// nimbers, legal moves, and splits, plus a websocket stream for whole
// tables.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"nimlib/engine"
	"nimlib/ruleset"
)

// Server handles the /v1 API.
type Server struct {
	log *log.Logger

	upgrader websocket.Upgrader

	// Streams are capped so a single request cannot pin a CPU forever.
	maxStreamHeight engine.Stack
}

// New builds a server logging to logger.
func New(logger *log.Logger) *Server {
	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		maxStreamHeight: 100000,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/nimber", s.handleNimber)
	mux.HandleFunc("/v1/moves", s.handleMoves)
	mux.HandleFunc("/v1/splits", s.handleSplits)
	mux.HandleFunc("/v1/watch", s.handleWatch)
	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("write response: %v", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

type nimberRequest struct {
	Rules    []ruleset.RuleJSON `json:"rules"`
	Position []engine.Stack     `json:"position"`
}

type nimberResponse struct {
	Nimber          engine.Nimber `json:"nimber"`
	FirstPlayerWins bool          `json:"first_player_wins"`
}

func (s *Server) handleNimber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req nimberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}
	rs, err := toRuleSet(req.Rules)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	n := rs.NimberForPosition(engine.Position(req.Position))
	s.writeJSON(w, http.StatusOK, nimberResponse{
		Nimber:          n,
		FirstPlayerWins: n != 0,
	})
}

type movesRequest struct {
	Rules  []ruleset.RuleJSON `json:"rules"`
	Height engine.Stack       `json:"height"`
}

// MoveJSON is the wire form of one legal move.
type MoveJSON struct {
	Amount uint64     `json:"amount"`
	Split  *SplitJSON `json:"split,omitempty"`
}

// SplitJSON is the wire form of a split's two halves.
type SplitJSON struct {
	A engine.Stack `json:"a"`
	B engine.Stack `json:"b"`
}

type movesResponse struct {
	Height engine.Stack `json:"height"`
	Moves  []MoveJSON   `json:"moves"`
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req movesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, err)
		return
	}
	rs, err := toRuleSet(req.Rules)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	actions := rs.LegalMoves(req.Height)
	moves := make([]MoveJSON, len(actions))
	for i, a := range actions {
		moves[i] = MoveJSON{Amount: a.Amount}
		if a.Split.Split {
			moves[i].Split = &SplitJSON{A: a.Split.A, B: a.Split.B}
		}
	}
	s.writeJSON(w, http.StatusOK, movesResponse{Height: req.Height, Moves: moves})
}

type splitsResponse struct {
	Remainder engine.Stack      `json:"remainder"`
	Splits    [][2]engine.Stack `json:"splits"`
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	raw := r.URL.Query().Get("height")
	height, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	pairs := engine.CalculateSplits(engine.Stack(height))
	splits := make([][2]engine.Stack, len(pairs))
	for i, p := range pairs {
		splits[i] = [2]engine.Stack{p.Left, p.Right}
	}
	s.writeJSON(w, http.StatusOK, splitsResponse{Remainder: engine.Stack(height), Splits: splits})
}

type watchRequest struct {
	Rules     []ruleset.RuleJSON `json:"rules"`
	MaxHeight engine.Stack       `json:"max_height"`
}

// WatchEntry is one streamed table row.
type WatchEntry struct {
	Height engine.Stack  `json:"height"`
	Nimber engine.Nimber `json:"nimber"`
}

// handleWatch streams the nimber table for the requested rules, one entry
// per height from 0 to max_height, then closes.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}
	var req watchRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		s.closeWith(conn, websocket.ClosePolicyViolation, "bad watch request")
		return
	}
	rs, err := toRuleSet(req.Rules)
	if err != nil {
		s.closeWith(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}
	if req.MaxHeight > s.maxStreamHeight {
		s.closeWith(conn, websocket.ClosePolicyViolation, "max_height too large")
		return
	}

	for h := engine.Stack(0); h <= req.MaxHeight; h++ {
		entry := WatchEntry{Height: h, Nimber: rs.NimberForHeight(h)}
		if err := conn.WriteJSON(entry); err != nil {
			return
		}
	}
	s.closeWith(conn, websocket.CloseNormalClosure, "")
}

func (s *Server) closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
}

func toRuleSet(rules []ruleset.RuleJSON) (*engine.RuleSet, error) {
	doc := &ruleset.Document{Rules: rules}
	if errs := ruleset.Validate(doc); len(errs) > 0 {
		return nil, errs[0]
	}
	return doc.RuleSet()
}
