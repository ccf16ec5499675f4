package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/matst80/inventory-card/pkg/common"
	"github.com/matst80/inventory-card/pkg/types"
)

func defaultHeaders(w http.ResponseWriter, r *http.Request, isJson bool) {
	if isJson {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	}
	common.CorsHeaders(w, r)
}

// GetCard serves the latest rendered card for an entity, rendering on demand
// when nothing was rendered yet.
func (ws *WebServer) GetCard(w http.ResponseWriter, r *http.Request) {
	entityId := r.PathValue("entity")
	card, ok := ws.card(entityId)
	if !ok {
		http.Error(w, "unknown card", http.StatusNotFound)
		return
	}

	output, ok := card.Renderer.Output()
	if !ok {
		card.Pipeline.Render(r.Context())
		output, _ = card.Renderer.Output()
	}

	defaultHeaders(w, r, false)
	w.WriteHeader(http.StatusOK)
	w.Write(output)
}

// PushState receives an entity state from the host platform and schedules a
// debounced re-render of the matching card.
func (ws *WebServer) PushState(w http.ResponseWriter, r *http.Request) {
	entityState := &types.EntityState{}
	if err := json.NewDecoder(r.Body).Decode(entityState); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if entityState.EntityId == "" {
		http.Error(w, "missing entity_id", http.StatusBadRequest)
		return
	}

	ws.Registry.Set(entityState)
	stateUpdates.Inc()

	if card, ok := ws.card(entityState.EntityId); ok {
		card.Pipeline.DebouncedRender(context.Background())
	}
	w.WriteHeader(http.StatusOK)
}

// GetEntities lists the entities the host platform has pushed states for.
func (ws *WebServer) GetEntities(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
	common.CorsHeaders(w, r)
	return enc.Encode(ws.Registry.EntityIds())
}

// GetFilters returns the stored filter state for an entity.
func (ws *WebServer) GetFilters(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
	entityId := r.PathValue("entity")
	common.CorsHeaders(w, r)

	return enc.Encode(ws.Store.GetCurrentFilters(r.Context(), entityId))
}

// SaveFilters stores a full filter state. The state arrives either as a JSON
// body or as query parameters.
func (ws *WebServer) SaveFilters(w http.ResponseWriter, r *http.Request) {
	entityId := r.PathValue("entity")

	state := types.DefaultFilterState()
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		decoder := schema.NewDecoder()
		decoder.IgnoreUnknownKeys(true)
		if err := decoder.Decode(&state, r.URL.Query()); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := ws.Store.SaveFilters(r.Context(), entityId, state); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	filterSaves.Inc()

	if card, ok := ws.card(entityId); ok {
		card.Pipeline.RefreshAfterSave(context.Background())
	}
	defaultHeaders(w, r, true)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}

// Search feeds the debounced search-input path.
func (ws *WebServer) Search(w http.ResponseWriter, r *http.Request) {
	entityId := r.PathValue("entity")
	card, ok := ws.card(entityId)
	if !ok {
		http.Error(w, "unknown card", http.StatusNotFound)
		return
	}

	card.Pipeline.SetSearchText(context.Background(), r.URL.Query().Get("q"))
	w.WriteHeader(http.StatusAccepted)
}

// ClearFilters removes the stored state entirely, a subsequent read returns
// defaults.
func (ws *WebServer) ClearFilters(w http.ResponseWriter, r *http.Request) {
	entityId := r.PathValue("entity")

	if err := ws.Store.ClearFilters(r.Context(), entityId); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	filterClears.Inc()

	if ws.OnFiltersCleared != nil {
		ws.OnFiltersCleared(entityId)
	}
	if card, ok := ws.card(entityId); ok {
		card.Pipeline.Render(r.Context())
	}
	w.WriteHeader(http.StatusOK)
}
