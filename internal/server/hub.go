package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Jacobcdsmith/CONSIM/internal/history"
	"github.com/Jacobcdsmith/CONSIM/internal/lattice"
)

const clientWriteTimeout = 5 * time.Second

// client is one connected WebSocket consumer. The write mutex serializes
// frame fan-out against control-message acknowledgements.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(clientWriteTimeout))
	return c.conn.WriteJSON(v)
}

// trySend writes v unless the client is still busy with a previous write,
// in which case the frame is dropped for that client.
func (c *client) trySend(v interface{}) (bool, error) {
	if !c.mu.TryLock() {
		return false, nil
	}
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(clientWriteTimeout))
	return true, c.conn.WriteJSON(v)
}

// Hub owns the engine and serializes every access to it behind one mutex,
// drives the frame loop, and fans lattice snapshots out to all connected
// WebSocket clients.
type Hub struct {
	mu         sync.Mutex
	engine     *lattice.Engine
	newEngine  func() *lattice.Engine
	pointer    *lattice.PointerInfluence
	startedAt  time.Time
	frameCount uint64

	clientsMu sync.Mutex
	clients   map[string]*client

	db        *history.DB
	targetFPS int
	log       *slog.Logger
}

// NewHub builds a hub around the engine produced by newEngine. The factory
// is retained so a reset can construct a fresh engine and swap the handle.
// db may be nil to disable stats history recording.
func NewHub(newEngine func() *lattice.Engine, targetFPS int, db *history.DB, log *slog.Logger) *Hub {
	if targetFPS <= 0 {
		targetFPS = 60
	}
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		engine:    newEngine(),
		newEngine: newEngine,
		startedAt: time.Now(),
		clients:   make(map[string]*client),
		db:        db,
		targetFPS: targetFPS,
		log:       log,
	}
}

// Run drives the frame loop at the target cadence until ctx is cancelled.
// Each frame steps the engine by the measured elapsed time and broadcasts
// the resulting snapshot; once per wall second the frame's aggregate stats
// are recorded to the history database.
func (h *Hub) Run(ctx context.Context) {
	interval := time.Second / time.Duration(h.targetFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	lastSample := last

	for {
		select {
		case <-ctx.Done():
			h.log.Info("frame loop stopping")
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			h.mu.Lock()
			stats := h.engine.Step(dt, h.pointer)
			snap := h.engine.Snapshot()
			h.frameCount++
			h.mu.Unlock()

			if h.db != nil && now.Sub(lastSample) >= time.Second {
				lastSample = now
				if err := h.db.Record(now.Unix(), stats); err != nil {
					h.log.Warn("stats history record failed", "error", err)
				}
			}

			h.broadcast(snap)
		}
	}
}

func (h *Hub) broadcast(snap lattice.LatticeSnapshot) {
	h.clientsMu.Lock()
	list := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		list = append(list, c)
	}
	h.clientsMu.Unlock()

	for _, c := range list {
		// A client still draining its previous frame just misses this one.
		if _, err := c.trySend(snap); err != nil {
			h.log.Info("client send failed, evicting", "client", c.id, "error", err)
			h.removeClient(c)
		}
	}
}

func (h *Hub) addClient(conn *websocket.Conn) *client {
	c := &client{id: uuid.NewString(), conn: conn}
	h.clientsMu.Lock()
	h.clients[c.id] = c
	h.clientsMu.Unlock()
	h.log.Info("client connected", "client", c.id, "total", h.ClientCount())
	return c
}

func (h *Hub) removeClient(c *client) {
	h.clientsMu.Lock()
	_, present := h.clients[c.id]
	delete(h.clients, c.id)
	h.clientsMu.Unlock()
	if present {
		c.conn.Close()
		h.log.Info("client disconnected", "client", c.id, "total", h.ClientCount())
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

// SetPointer installs the pointer influence applied on subsequent frames.
func (h *Hub) SetPointer(p lattice.PointerInfluence) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pointer = &p
}

// Snapshot returns the current full lattice state.
func (h *Hub) Snapshot() lattice.LatticeSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.Snapshot()
}

// Stats returns the aggregate statistics for the current engine state.
func (h *Hub) Stats() lattice.AggregateStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.Stats()
}

// Mode returns the engine's advisory visualization mode.
func (h *Hub) Mode() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.Mode()
}

// Params returns the engine's current physics configuration.
func (h *Hub) Params() lattice.Params {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.Params()
}

// SetParams merges recognized parameter keys into the engine configuration.
func (h *Hub) SetParams(updates map[string]float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.SetParams(updates)
}

// AddNode inserts a node at (x, y) and returns its snapshot.
func (h *Hub) AddNode(x, y float64) lattice.EntitySnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.AddNode(x, y)
}

// RemoveNode deletes the node with the given id, reporting success.
func (h *Hub) RemoveNode(id int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.RemoveNode(id)
}

// Collapse triggers a quantum collapse centered at (x, y).
func (h *Hub) Collapse(x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.Collapse(x, y)
}

// SetMode switches the advisory visualization mode.
func (h *Hub) SetMode(mode string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.SetMode(mode)
}

// Reset swaps in a freshly constructed engine; the old one is discarded.
// Clients keep their connections and simply see the new lattice.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = h.newEngine()
	h.pointer = nil
	h.log.Info("engine reset")
}

// Uptime reports how long the hub has existed.
func (h *Hub) Uptime() time.Duration {
	return time.Since(h.startedAt)
}

// FrameCount returns the number of frames stepped so far.
func (h *Hub) FrameCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frameCount
}
