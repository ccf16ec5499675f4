package tracking

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker records user-driven interactions per entity. The render pipeline
// marks an interaction in flight after every render so externally triggered
// re-renders can be suppressed while the user is mid-edit.
type Tracker interface {
	TrackUserInteraction(entityId string)
	InteractionInFlight(entityId string) bool
}

// InteractionEvent is the payload published for analytics consumers.
type InteractionEvent struct {
	Id       string    `json:"id"`
	EntityId string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// MemoryTracker keeps the last interaction per entity in memory.
type MemoryTracker struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]InteractionEvent
	now    func() time.Time

	// Publish, when set, forwards every event to an external sink.
	Publish func(InteractionEvent)
}

func NewMemoryTracker(window time.Duration) *MemoryTracker {
	if window <= 0 {
		window = 2 * time.Second
	}
	return &MemoryTracker{
		window: window,
		last:   make(map[string]InteractionEvent),
		now:    time.Now,
	}
}

func (t *MemoryTracker) TrackUserInteraction(entityId string) {
	event := InteractionEvent{
		Id:       uuid.NewString(),
		EntityId: entityId,
		At:       t.now(),
	}
	t.mu.Lock()
	t.last[entityId] = event
	t.mu.Unlock()

	if t.Publish != nil {
		t.Publish(event)
	}
}

func (t *MemoryTracker) InteractionInFlight(entityId string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	event, ok := t.last[entityId]
	if !ok {
		return false
	}
	return t.now().Sub(event.At) < t.window
}
