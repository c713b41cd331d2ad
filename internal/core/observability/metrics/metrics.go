package metrics

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
)

type Counter interface {
	Inc()
	Add(uint64)
	Value() uint64
}

type Gauge interface {
	Set(float64)
	Value() float64
}

// Sample is one exported value.
type Sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type counter struct{ v atomic.Uint64 }

func (c *counter) Inc()          { c.v.Add(1) }
func (c *counter) Add(n uint64)  { c.v.Add(n) }
func (c *counter) Value() uint64 { return c.v.Load() }

type gauge struct{ bits atomic.Uint64 }

func (g *gauge) Set(v float64)  { g.bits.Store(math.Float64bits(v)) }
func (g *gauge) Value() float64 { return math.Float64frombits(g.bits.Load()) }

// Registry hands out named counters and gauges. Asking twice for a name returns the same
// instrument.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*counter
	gauges   map[string]*gauge
}

func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*counter),
		gauges:   make(map[string]*gauge),
	}
}

func (r *Registry) Counter(name string) Counter {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.counters[name]; !ok {
		c = &counter{}
		r.counters[name] = c
	}
	return c
}

func (r *Registry) Gauge(name string) Gauge {
	r.mu.RLock()
	g, ok := r.gauges[name]
	r.mu.RUnlock()
	if ok {
		return g
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok = r.gauges[name]; !ok {
		g = &gauge{}
		r.gauges[name] = g
	}
	return g
}

// Export returns every instrument sorted by name.
func (r *Registry) Export() []Sample {
	r.mu.RLock()
	out := make([]Sample, 0, len(r.counters)+len(r.gauges))
	for name, c := range r.counters {
		out = append(out, Sample{Name: name, Value: float64(c.Value())})
	}
	for name, g := range r.gauges {
		out = append(out, Sample{Name: name, Value: g.Value()})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Sample) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
