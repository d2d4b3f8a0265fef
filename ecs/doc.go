// Package ecs provides ECS adapters for thicket's sprite event system.
//
// The primary adapter is [NewDonburiSink], which bridges sprite lifecycle and
// collision events into a [Donburi] world as typed events and mirrors every
// live sprite as an entity carrying [SpriteComponent]. Subscribe to
// [SpriteEventType] in your ECS systems to receive the events.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	registry.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
