// Package ecs provides ECS adapters for grove's picking.
//
// The primary adapter is [NewDonburiStore], which bridges grove pick hits
// into a [Donburi] world as typed events. Subscribe to [PickEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
