// Command consim runs the consciousness lattice simulation server: a 60 Hz
// engine loop streaming lattice snapshots over WebSocket, with a REST API
// for control and stats history.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jacobcdsmith/CONSIM/internal/config"
	"github.com/Jacobcdsmith/CONSIM/internal/history"
	"github.com/Jacobcdsmith/CONSIM/internal/lattice"
	"github.com/Jacobcdsmith/CONSIM/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	nodes := flag.Int("nodes", -1, "initial node count (overrides config)")
	universes := flag.Int("universes", -1, "universe count (overrides config)")
	fps := flag.Int("fps", -1, "target frame rate (overrides config)")
	seed := flag.Uint64("seed", 0, "random seed, 0 = clock-derived (overrides config)")
	dbPath := flag.String("db", "", "stats history database path, \"none\" to disable (overrides config)")
	staticDir := flag.String("static", "", "static assets directory (overrides config)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Error("config load failed", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *nodes >= 0 {
		cfg.NodeCount = *nodes
	}
	if *universes > 0 {
		cfg.UniverseCount = *universes
	}
	if *fps > 0 {
		cfg.TargetFPS = *fps
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *dbPath != "" {
		cfg.HistoryDB = *dbPath
	}
	if *staticDir != "" {
		cfg.StaticDir = *staticDir
	}

	effectiveSeed := cfg.Seed
	if effectiveSeed == 0 {
		effectiveSeed = uint64(time.Now().UnixNano())
	}

	var db *history.DB
	if cfg.HistoryDB != "" && cfg.HistoryDB != "none" {
		var err error
		db, err = history.Open(cfg.HistoryDB)
		if err != nil {
			log.Error("history database open failed", "path", cfg.HistoryDB, "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	newEngine := func() *lattice.Engine {
		return lattice.New(cfg.NodeCount, cfg.UniverseCount, rand.New(rand.NewPCG(effectiveSeed, effectiveSeed)))
	}

	hub := server.NewHub(newEngine, cfg.TargetFPS, db, log)
	api := server.New(hub, db, cfg.StaticDir, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.Handler(),
	}

	go func() {
		log.Info("consim listening",
			"addr", cfg.ListenAddr,
			"nodes", cfg.NodeCount,
			"universes", cfg.UniverseCount,
			"fps", cfg.TargetFPS,
			"seed", effectiveSeed,
			"history", db != nil)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
}
