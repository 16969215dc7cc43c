package server

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jacobcdsmith/CONSIM/internal/lattice"
)

func TestHubRunAdvancesEngine(t *testing.T) {
	// Setup
	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	hub := NewHub(newTestEngine, 120, nil, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Execute
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return hub.FrameCount() >= 3 })
	cancel()
	<-done

	// Verify
	if hub.Stats().Time <= 0 {
		t.Errorf("simulation time did not advance: %v", hub.Stats().Time)
	}
	if hub.Stats().NodeCount != 16 {
		t.Errorf("node count = %d, want 16", hub.Stats().NodeCount)
	}
}

func TestHubBroadcastsFrames(t *testing.T) {
	// Setup: a running hub behind the HTTP surface
	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	hub := NewHub(newTestEngine, 120, nil, log)
	s := New(hub, nil, "", log)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Execute: the initial snapshot plus at least two live frames
	deadline := time.Now().Add(5 * time.Second)
	var frames int
	var last lattice.LatticeSnapshot
	for frames < 3 {
		conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&last); err != nil {
			t.Fatalf("frame %d: %v", frames, err)
		}
		frames++
	}

	// Verify: live frames carry an advancing clock
	if last.Time <= 0 {
		t.Errorf("streamed frame time = %v, want > 0", last.Time)
	}
	if len(last.Entities) != 16 {
		t.Errorf("streamed entities = %d, want 16", len(last.Entities))
	}
}

func TestHubResetInstallsFreshEngine(t *testing.T) {
	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	hub := NewHub(newTestEngine, 60, nil, log)

	hub.AddNode(1, 1)
	hub.SetPointer(lattice.PointerInfluence{X: 5, Y: 5, Mode: lattice.PointerPull, Active: true})
	hub.SetParams(map[string]float64{"gravity": 3})

	hub.Reset()

	if got := hub.Stats().NodeCount; got != 16 {
		t.Errorf("node count after reset = %d, want 16", got)
	}
	if got := hub.Params().Gravity; got != 1.0 {
		t.Errorf("gravity after reset = %v, want default 1.0", got)
	}
}
