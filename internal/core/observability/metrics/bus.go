package metrics

import (
	"time"

	"github.com/zeusync/sectorsim/internal/core/events/bus"
)

var _ bus.EventBusObserver = (*BusObserver)(nil)

// BusObserver counts events per type and handler failures.
type BusObserver struct {
	registry *Registry
}

func NewBusObserver(r *Registry) *BusObserver {
	return &BusObserver{registry: r}
}

func (o *BusObserver) OnPublish(eventType string, _ bus.Event) {
	o.registry.Counter("events." + eventType).Inc()
}

func (o *BusObserver) OnDelivered(eventType string, _ int, err error, d time.Duration) {
	if err != nil {
		o.registry.Counter("events." + eventType + ".errors").Inc()
	}
	o.registry.Gauge("events." + eventType + ".last_delivery_seconds").Set(d.Seconds())
}
