package storage

import (
	"context"
	"errors"
	"testing"
)

func TestDiskStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStorage(dir)
	if err != nil {
		t.Fatalf("Failed to create disk storage: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Get(ctx, "filters_sensor.pantry"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing key, got %v", err)
	}

	payload := []byte(`{"searchText":"milk"}`)
	if err := store.Set(ctx, "filters_sensor.pantry", payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := store.Get(ctx, "filters_sensor.pantry")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("Expected %s, got %s", payload, data)
	}

	if err := store.Delete(ctx, "filters_sensor.pantry"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "filters_sensor.pantry"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestDiskStorageDeleteMissingKey(t *testing.T) {
	store, err := NewDiskStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create disk storage: %v", err)
	}
	if err := store.Delete(context.Background(), "filters_sensor.unknown"); err != nil {
		t.Errorf("Expected delete of missing key to succeed, got %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, err := store.Get(ctx, "a")
	if err != nil || string(data) != "1" {
		t.Errorf("Expected value 1, got %s (%v)", data, err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
