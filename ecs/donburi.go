package ecs

import (
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PickEventType is the Donburi event type for grove pick hits.
// Subscribe to this in your ECS systems to receive them.
var PickEventType = events.NewEventType[grove.PickEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Pick events are published to PickEventType and can be consumed with
// events.Subscribe and ProcessEvents. Hits on nodes without an entity are
// dropped.
func NewDonburiStore(world donburi.World) grove.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event grove.PickEvent) {
	if event.EntityID == grove.NoEntity {
		return
	}
	PickEventType.Publish(s.world, event)
}
