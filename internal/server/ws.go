package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Jacobcdsmith/CONSIM/internal/lattice"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// inboundMessage is the union of every control message a client may send
// over the stream socket. Type selects which fields matter.
type inboundMessage struct {
	Type   string             `json:"type"`
	X      float64            `json:"x"`
	Y      float64            `json:"y"`
	Mode   string             `json:"mode"`
	Active bool               `json:"active"`
	Params map[string]float64 `json:"params"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := s.hub.addClient(conn)
	defer s.hub.removeClient(c)

	// Initial full state so a new client renders immediately.
	if err := c.send(s.hub.Snapshot()); err != nil {
		return
	}

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		s.dispatch(c, msg)
	}
}

// dispatch applies one inbound control message. Malformed or unknown
// messages are logged and dropped; the stream stays up.
func (s *Server) dispatch(c *client, msg inboundMessage) {
	switch msg.Type {
	case "pointer_influence", "mouse_influence":
		mode := msg.Mode
		if mode == "" {
			mode = lattice.PointerPush
		}
		s.hub.SetPointer(lattice.PointerInfluence{
			X:      msg.X,
			Y:      msg.Y,
			Mode:   mode,
			Active: msg.Active,
		})
	case "parameter_update":
		s.hub.SetParams(msg.Params)
	case "add_node":
		snap := s.hub.AddNode(msg.X, msg.Y)
		_ = c.send(map[string]interface{}{"type": "node_added", "node": snap})
	case "quantum_collapse":
		s.hub.Collapse(msg.X, msg.Y)
	case "set_mode":
		if !s.hub.SetMode(msg.Mode) {
			s.log.Info("ignoring unknown mode", "client", c.id, "mode", msg.Mode)
		}
	default:
		s.log.Info("ignoring unknown message", "client", c.id, "type", msg.Type)
	}
}
