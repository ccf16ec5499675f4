package server

import (
	"net/http"
	"net/http/pprof"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/inventory-card/pkg/common"
	"github.com/matst80/inventory-card/pkg/filter"
	"github.com/matst80/inventory-card/pkg/render"
	"github.com/matst80/inventory-card/pkg/state"
)

var (
	filterSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_card_filter_saves_total",
		Help: "The total number of saved filter states",
	})
	filterClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_card_filter_clears_total",
		Help: "The total number of cleared filter states",
	})
	stateUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_card_state_updates_total",
		Help: "The total number of entity states pushed by the host",
	})
)

// Card pairs a pipeline with the renderer whose output the server serves.
type Card struct {
	Pipeline *render.Pipeline
	Renderer *render.HTMLRenderer
}

// WebServer exposes rendered cards and filter state over HTTP.
type WebServer struct {
	Registry *state.Registry
	Store    *filter.Store
	Auth     *Auth

	// OnFiltersCleared, when set, is notified after a clear so other
	// instances can drop their state too.
	OnFiltersCleared func(entityId string)

	// EnableProfiling exposes the pprof endpoints.
	EnableProfiling bool

	mu    sync.RWMutex
	cards map[string]*Card
}

// AddCard registers a card for its entity.
func (ws *WebServer) AddCard(card *Card) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.cards == nil {
		ws.cards = make(map[string]*Card)
	}
	ws.cards[card.Pipeline.EntityId()] = card
}

func (ws *WebServer) card(entityId string) (*Card, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	card, ok := ws.cards[entityId]
	return card, ok
}

func (ws *WebServer) eachCard(fn func(*Card)) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	for _, card := range ws.cards {
		fn(card)
	}
}

// Handler builds the HTTP routing table.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /card/{entity}", ws.GetCard)
	mux.HandleFunc("POST /api/state", ws.PushState)
	mux.HandleFunc("GET /api/entities", common.JsonHandler(ws.GetEntities))
	mux.HandleFunc("GET /api/filters/{entity}", common.JsonHandler(ws.GetFilters))
	mux.HandleFunc("POST /api/filters/{entity}", ws.SaveFilters)
	mux.HandleFunc("POST /api/filters/{entity}/search", ws.Search)
	mux.HandleFunc("DELETE /api/filters/{entity}", ws.Auth.Middleware(ws.ClearFilters))

	if ws.EnableProfiling {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	// An "OPTIONS /" pattern would conflict with the method-less routes
	// (/health, /metrics, pprof) under the Go 1.22+ ServeMux rules, so
	// dispatch OPTIONS before the mux instead.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			common.RespondToOptions(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
}
