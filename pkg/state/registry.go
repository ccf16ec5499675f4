package state

import (
	"sync"

	"github.com/matst80/inventory-card/pkg/types"
)

// Registry holds the entity states the host platform has pushed so far.
// It is the card's read-only view of the host's state machine.
type Registry struct {
	mu     sync.RWMutex
	states map[string]*types.EntityState
}

func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*types.EntityState)}
}

// Get returns the state for an entity id, or false when the host never
// pushed one.
func (r *Registry) Get(entityId string) (*types.EntityState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[entityId]
	return state, ok
}

// Set stores a pushed entity state, replacing any previous one.
func (r *Registry) Set(entityState *types.EntityState) {
	if entityState == nil || entityState.EntityId == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[entityState.EntityId] = entityState
}

// EntityIds lists the known entities.
func (r *Registry) EntityIds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.states))
	for id := range r.states {
		ids = append(ids, id)
	}
	return ids
}
