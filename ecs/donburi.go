package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/thicket"
)

// SpriteEventType is the Donburi event type for thicket sprite events.
// Subscribe to this in your ECS systems to receive spawn, destroy, and
// collision events.
var SpriteEventType = events.NewEventType[thicket.Event]()

// SpriteEntity mirrors one live sprite in the world.
type SpriteEntity struct {
	Handle     thicket.Handle
	Tag        uint8
	Collisions int
}

// SpriteComponent holds the mirror of a live sprite. Entities carrying it are
// created on spawn and removed on destroy.
var SpriteComponent = donburi.NewComponentType[SpriteEntity]()

type donburiSink struct {
	world    donburi.World
	entities map[thicket.Handle]donburi.Entity
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Every event
// is published to SpriteEventType and can be consumed with events.Subscribe
// and ProcessEvents. Live sprites are also mirrored as entities carrying
// SpriteComponent.
func NewDonburiSink(world donburi.World) thicket.EventSink {
	return &donburiSink{
		world:    world,
		entities: make(map[thicket.Handle]donburi.Entity),
	}
}

func (s *donburiSink) EmitEvent(event thicket.Event) {
	switch event.Type {
	case thicket.EventSpawned:
		e := s.world.Create(SpriteComponent)
		SpriteComponent.SetValue(s.world.Entry(e), SpriteEntity{Handle: event.Handle, Tag: event.Tag})
		s.entities[event.Handle] = e
	case thicket.EventDestroyed:
		if e, ok := s.entities[event.Handle]; ok {
			delete(s.entities, event.Handle)
			if s.world.Valid(e) {
				s.world.Remove(e)
			}
		}
	case thicket.EventCollision:
		if e, ok := s.entities[event.Handle]; ok && s.world.Valid(e) {
			SpriteComponent.Get(s.world.Entry(e)).Collisions++
		}
	}
	SpriteEventType.Publish(s.world, event)
}

// CountTagged returns the number of mirrored sprites carrying tag.
func CountTagged(world donburi.World, tag uint8) int {
	n := 0
	SpriteComponent.Each(world, func(entry *donburi.Entry) {
		if SpriteComponent.Get(entry).Tag == tag {
			n++
		}
	})
	return n
}
