// Package api provides the HTTP API for observing the market simulation.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the player/admin driver).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/starlane/internal/galaxy"
	"github.com/talgya/starlane/internal/market"
	"github.com/talgya/starlane/internal/sim"
)

// Server serves market state over HTTP. All engine access goes through Mu:
// trades must serialize with the weekly tick, and the engine itself is not
// thread-safe.
type Server struct {
	Engine *market.Engine
	Clock  *sim.Clock
	Galaxy *galaxy.Galaxy
	Mu     *sync.Mutex

	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	tradeLimiter := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/commodities", s.handleCommodities)
	mux.HandleFunc("/api/v1/locations", s.handleLocations)
	mux.HandleFunc("/api/v1/market", s.handleMarket)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/ledger", s.handleLedger)

	mux.HandleFunc("/api/v1/trade", s.adminOnly(limit(tradeLimiter, s.handleTrade)))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no TRADESIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	stateName := "none"
	stateExpiry := 0
	if st, expiry, ok := s.Engine.ActiveSystemState(); ok {
		stateName = st.Name
		stateExpiry = expiry
	}

	totalStock := 0.0
	for _, loc := range s.Galaxy.Locations {
		for _, c := range s.Galaxy.Commodities {
			if rec, err := s.Engine.GetInventory(loc.ID, c.ID); err == nil {
				totalStock += rec.Quantity
			}
		}
	}

	writeJSON(w, map[string]any{
		"name":                "Starlane",
		"day":                 s.Engine.CurrentDay(),
		"revealed_tier":       s.Engine.RevealedTier(),
		"system_state":        stateName,
		"system_state_expiry": stateExpiry,
		"locations":           len(s.Galaxy.Locations),
		"commodities":         len(s.Galaxy.Commodities),
		"total_stock_units":   humanize.Comma(int64(totalStock)),
		"speed":               s.Clock.Speed,
		"running":             s.Clock.Running,
	})
}

func (s *Server) handleCommodities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Galaxy.Commodities)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Galaxy.Locations)
}

// handleMarket returns prices and inventory views for one location:
// /api/v1/market?location=loc-01
func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	locationID := r.URL.Query().Get("location")

	s.Mu.Lock()
	defer s.Mu.Unlock()

	type entry struct {
		Commodity string                 `json:"commodity"`
		Tier      int                    `json:"tier"`
		Price     float64                `json:"price"`
		Average   float64                `json:"galactic_average"`
		Inventory market.InventoryRecord `json:"inventory"`
	}

	entries := make([]entry, 0, len(s.Galaxy.Commodities))
	for _, c := range s.Galaxy.Commodities {
		if c.Tier > s.Engine.RevealedTier() {
			continue
		}
		price, err := s.Engine.GetPrice(locationID, c.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		avg, _ := s.Engine.GetGalacticAverage(c.ID)
		rec, _ := s.Engine.GetInventory(locationID, c.ID)
		entries = append(entries, entry{
			Commodity: c.ID,
			Tier:      c.Tier,
			Price:     price,
			Average:   avg,
			Inventory: rec,
		})
	}

	writeJSON(w, map[string]any{
		"location": locationID,
		"day":      s.Engine.CurrentDay(),
		"entries":  entries,
	})
}

// handleHistory returns one price-history series:
// /api/v1/history?location=loc-01&commodity=ore
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	locationID := r.URL.Query().Get("location")
	commodityID := r.URL.Query().Get("commodity")

	s.Mu.Lock()
	series, err := s.Engine.GetPriceHistory(locationID, commodityID)
	s.Mu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"location":  locationID,
		"commodity": commodityID,
		"samples":   series,
	})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	s.Mu.Lock()
	trades := s.Engine.RecentTrades(limit)
	s.Mu.Unlock()

	writeJSON(w, trades)
}

// handleTrade records a completed player trade's market impact.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location  string  `json:"location"`
		Commodity string  `json:"commodity"`
		Quantity  float64 `json:"quantity"`
		Side      string  `json:"side"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	s.Mu.Lock()
	trade, err := s.Engine.RecordTransaction(req.Location, req.Commodity, req.Quantity, market.TradeSide(req.Side))
	s.Mu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("trade recorded",
		"id", trade.ID,
		"location", trade.LocationID,
		"commodity", trade.CommodityID,
		"quantity", humanize.Commaf(trade.Quantity),
		"side", trade.Side,
	)
	writeJSON(w, trade)
}

// handleSpeed adjusts the clock speed: {"speed": 2.0}. 0 pauses the clock.
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		http.Error(w, "speed out of range", http.StatusBadRequest)
		return
	}

	s.Clock.Speed = req.Speed
	slog.Info("clock speed changed", "speed", req.Speed)
	writeJSON(w, map[string]any{"speed": req.Speed})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
