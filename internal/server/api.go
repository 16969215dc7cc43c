// Package server is the transport collaborator around the lattice engine:
// a WebSocket streaming hub plus a small REST API, with the engine owned by
// the hub and every call serialized behind its mutex.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobcdsmith/CONSIM/internal/history"
)

// Server wires the hub and the stats history database into an HTTP handler.
type Server struct {
	hub       *Hub
	db        *history.DB
	staticDir string
	log       *slog.Logger
}

// New builds the HTTP surface around hub. db may be nil (history endpoints
// answer 503); staticDir may be empty to disable static file serving.
func New(hub *Hub, db *history.DB, staticDir string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{hub: hub, db: db, staticDir: staticDir, log: log}
}

// Handler returns the full route table wrapped in CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/stream", s.handleStream)

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/stats/history", s.handleStatsHistory)
	mux.HandleFunc("/api/parameters", s.handleParameters)
	mux.HandleFunc("/api/nodes", s.handleNodes)
	mux.HandleFunc("/api/nodes/", s.handleNodeByID)
	mux.HandleFunc("/api/collapse", s.handleCollapse)
	mux.HandleFunc("/api/mode/", s.handleMode)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/export", s.handleExport)

	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	return corsMiddleware(mux)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

// corsMiddleware allows any origin; the API serves a local browser
// visualizer and carries no credentials.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats := s.hub.Stats()
	writeJSON(w, map[string]interface{}{
		"status":         "running",
		"clients":        s.hub.ClientCount(),
		"node_count":     stats.NodeCount,
		"cluster_count":  stats.ClusterCount,
		"mode":           s.hub.Mode(),
		"time":           stats.Time,
		"uptime_seconds": s.hub.Uptime().Seconds(),
		"frames":         s.hub.FrameCount(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.hub.Stats())
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "history not available", http.StatusServiceUnavailable)
		return
	}

	from := int64(0)
	to := time.Now().Unix()
	limit := 0

	if f := r.URL.Query().Get("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			from = v
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			to = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 10000 {
			limit = v
		}
	}

	samples, err := s.db.Window(from, to, limit)
	if err != nil {
		s.log.Error("stats history query failed", "error", err)
		writeJSON(w, []history.Sample{})
		return
	}
	writeJSON(w, samples)
}

func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.hub.Params())
	case http.MethodPost:
		var updates map[string]float64
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			http.Error(w, "invalid parameter body", http.StatusBadRequest)
			return
		}
		s.hub.SetParams(updates)
		writeJSON(w, s.hub.Params())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type pointBody struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body pointBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid node body", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.hub.AddNode(body.X, body.Y))
}

func (s *Server) handleNodeByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/nodes/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid node id", http.StatusBadRequest)
		return
	}
	if !s.hub.RemoveNode(id) {
		http.Error(w, "node not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body pointBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid collapse body", http.StatusBadRequest)
		return
	}
	s.hub.Collapse(body.X, body.Y)
	writeJSON(w, map[string]string{"status": "collapsed"})
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mode := strings.TrimPrefix(r.URL.Path, "/api/mode/")
	if !s.hub.SetMode(mode) {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"mode": mode})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.hub.Reset()
	writeJSON(w, map[string]string{"status": "reset"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.hub.Snapshot())
}
