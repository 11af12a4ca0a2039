// Command tradesim runs the Starlane commodity market simulation.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/starlane/internal/api"
	"github.com/talgya/starlane/internal/galaxy"
	"github.com/talgya/starlane/internal/market"
	"github.com/talgya/starlane/internal/persistence"
	"github.com/talgya/starlane/internal/sim"
)

func main() {
	var (
		seed     = flag.Int64("seed", 42, "galaxy and market RNG seed")
		dbPath   = flag.String("db", "data/starlane.db", "SQLite snapshot path")
		apiPort  = flag.Int("port", 8080, "HTTP API port")
		interval = flag.Duration("interval", 5*time.Second, "wall-clock time per market week")
		tier     = flag.Int("tier", 1, "initial revealed commodity tier")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starlane — commodity market simulation", "seed", *seed)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── Galaxy (always regenerated — deterministic from seed) ─────────
	genCfg := galaxy.DefaultGenConfig()
	genCfg.Seed = *seed
	commodities := galaxy.DefaultCommodities()
	locations := galaxy.Generate(genCfg, commodities)
	g := galaxy.New(commodities, locations, galaxy.DefaultSystemStates())

	slog.Info("galaxy generated",
		"locations", len(g.Locations),
		"commodities", len(g.Commodities),
		"system_states", len(g.SystemStates),
	)

	// ── Market engine ─────────────────────────────────────────────────
	engCfg := market.DefaultConfig()
	engCfg.Seed = *seed
	eng, err := market.NewEngine(engCfg, g)
	if err != nil {
		slog.Error("failed to build market engine", "error", err)
		os.Exit(1)
	}
	eng.SetRevealedTier(*tier)

	if db.HasSnapshot() {
		snap, err := db.LoadSnapshot()
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			os.Exit(1)
		}
		if err := eng.Restore(snap); err != nil {
			slog.Error("failed to restore market state", "error", err)
			os.Exit(1)
		}
		slog.Info("market state restored",
			"day", snap.Day,
			"trades", humanize.Comma(int64(len(snap.Ledger))),
		)
	}

	// ── Clock + API ───────────────────────────────────────────────────
	// The engine is single-threaded: trades from the API serialize with the
	// weekly tick through this mutex.
	var mu sync.Mutex

	clock := sim.NewClock()
	clock.Interval = *interval
	clock.OnWeek = func() {
		mu.Lock()
		defer mu.Unlock()
		eng.AdvanceWeek()
		if state, expiry, ok := eng.ActiveSystemState(); ok {
			slog.Debug("week advanced",
				"day", eng.CurrentDay(),
				"system_state", state.ID,
				"state_expiry", expiry,
			)
		}
	}
	clock.AutosaveEvery = 12
	clock.OnAutosave = func() {
		mu.Lock()
		snap := eng.Snapshot()
		mu.Unlock()
		if err := db.SaveSnapshot(snap); err != nil {
			slog.Error("autosave failed", "error", err)
		} else {
			slog.Info("autosaved", "day", snap.Day)
		}
	}

	server := &api.Server{
		Engine:   eng,
		Clock:    clock,
		Galaxy:   g,
		Mu:       &mu,
		Port:     *apiPort,
		AdminKey: os.Getenv("TRADESIM_ADMIN_KEY"),
	}
	server.Start()

	go clock.Run()

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	clock.Stop()

	mu.Lock()
	snap := eng.Snapshot()
	mu.Unlock()
	if err := db.SaveSnapshot(snap); err != nil {
		slog.Error("final save failed", "error", err)
		os.Exit(1)
	}
	slog.Info("final snapshot saved", "day", snap.Day)
}
