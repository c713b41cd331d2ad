package physics

import (
	"github.com/zeusync/sectorsim/internal/core/events/bus"
	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
)

const (
	EventSource    = "physics"
	EventCollision = "physics.collision"
)

// CollisionEvent is the payload of EventCollision. MTV and Normal are expressed for A.
type CollisionEvent struct {
	Generation uint64           `json:"generation"`
	A          Handle           `json:"a"`
	B          Handle           `json:"b"`
	MTV        geometry.Vector2 `json:"mtv"`
	Normal     geometry.Vector2 `json:"normal"`
}

func (s *State) publish(logger log.Log) {
	if s.opts.events == nil || len(s.contacts) == 0 {
		return
	}

	events := make([]bus.Event, len(s.contacts))
	for i, c := range s.contacts {
		events[i] = bus.NewEvent(EventCollision, EventSource, CollisionEvent{
			Generation: s.generation,
			A:          c.A,
			B:          c.B,
			MTV:        c.MTV,
			Normal:     c.MTV.Normalize(),
		})
	}

	if err := s.opts.events.PublishBatch(events...); err != nil {
		logger.Warn("collision event handler failed",
			log.Uint64("generation", s.generation),
			log.Error(err),
		)
	}
}
