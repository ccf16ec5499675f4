package filter

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/matst80/inventory-card/pkg/storage"
	"github.com/matst80/inventory-card/pkg/types"
)

// Store persists filter state per entity in a key value store. Reads never
// fail: missing or unreadable blobs fall back to the default state.
type Store struct {
	kv storage.KeyValueStore
}

func NewStore(kv storage.KeyValueStore) *Store {
	return &Store{kv: kv}
}

// StorageKey returns the key a given entity's filters are stored under.
func StorageKey(entityId string) string {
	return "filters_" + entityId
}

// GetCurrentFilters loads and normalizes the saved filter state for an
// entity. Legacy blobs storing scalar criteria are upgraded to slices.
func (s *Store) GetCurrentFilters(ctx context.Context, entityId string) types.FilterState {
	data, err := s.kv.Get(ctx, StorageKey(entityId))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error reading filters for %s: %v", entityId, err)
		}
		return types.DefaultFilterState()
	}

	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("Error parsing saved filters for %s: %v", entityId, err)
		return types.DefaultFilterState()
	}

	return types.NormalizeFilterState(raw)
}

// SaveFilters overwrites the stored state for an entity.
func (s *Store) SaveFilters(ctx context.Context, entityId string, state types.FilterState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StorageKey(entityId), data)
}

// ClearFilters removes the entity's key entirely, a subsequent read returns
// the default state.
func (s *Store) ClearFilters(ctx context.Context, entityId string) error {
	return s.kv.Delete(ctx, StorageKey(entityId))
}
