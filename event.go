package thicket

// EventSink is the interface for optional ECS integration.
// When set on a Registry, sprite lifecycle and collision events are
// forwarded to it.
type EventSink interface {
	EmitEvent(event Event)
}

// EventType identifies a kind of sprite event.
type EventType uint8

const (
	EventSpawned   EventType = iota // a sprite was built
	EventDestroyed                  // a sprite was torn down
	EventCollision                  // a collision response was decided
)

// Event carries sprite event data for the ECS bridge. Handles are only
// meaningful while the sprites are alive.
type Event struct {
	Type   EventType
	Handle Handle
	Tag    uint8
	// Collision fields (valid for EventCollision)
	Other    Handle
	OtherTag uint8
	Response CollisionResponse
}

func (r *Registry) emit(e Event) {
	if r.sink != nil {
		r.sink.EmitEvent(e)
	}
}
