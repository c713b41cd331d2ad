package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/core/observability/metrics"
	"github.com/zeusync/sectorsim/internal/core/systems/physics"
)

// Listener is called after every step with the new generation. Listeners run on the
// runner goroutine and must not block.
type Listener func(state *physics.State)

// Runner advances physics generations at a fixed rate. The latest generation is
// published atomically so readers never see a half-built step.
type Runner struct {
	state  atomic.Pointer[physics.State]
	config Config
	logger log.Log

	mu        sync.RWMutex
	listeners map[uint64]Listener
	nextID    uint64

	running atomic.Bool

	metrics *metrics.Registry
}

func NewRunner(initial *physics.State, config Config, logger log.Log) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Provide()
	}
	if initial == nil {
		initial = physics.NewState([]physics.Body{}, physics.DefaultGravity, config.DeltaT(), physics.WithLogger(logger))
	}

	r := &Runner{
		config:    config,
		logger:    logger.With(log.String("component", "sim")),
		listeners: make(map[uint64]Listener),
	}
	r.state.Store(initial)
	return r, nil
}

// State returns the latest generation.
func (r *Runner) State() *physics.State {
	return r.state.Load()
}

// Instrument records step counts, sizes and durations into reg. Call before Run.
func (r *Runner) Instrument(reg *metrics.Registry) {
	r.metrics = reg
}

func (r *Runner) Config() Config {
	return r.config
}

// OnStep registers l and returns a func that removes it.
func (r *Runner) OnStep(l Listener) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// Tick advances one fixed step and notifies listeners.
func (r *Runner) Tick() *physics.State {
	start := time.Now()
	next := r.state.Load().Step(r.config.DeltaT())
	r.state.Store(next)

	if r.metrics != nil {
		r.metrics.Counter("sim.steps").Inc()
		r.metrics.Counter("sim.contacts").Add(uint64(next.CollisionCount()))
		r.metrics.Gauge("sim.generation").Set(float64(next.Generation()))
		r.metrics.Gauge("sim.bodies").Set(float64(next.Len()))
		r.metrics.Gauge("sim.step_seconds").Set(time.Since(start).Seconds())
	}

	r.mu.RLock()
	listeners := make([]Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		listeners = append(listeners, l)
	}
	r.mu.RUnlock()

	for _, l := range listeners {
		l(next)
	}

	if every := r.config.SummaryEvery; every > 0 && next.Generation()%every == 0 {
		r.logger.Info("simulation step",
			log.Uint64("generation", next.Generation()),
			log.Int("bodies", next.Len()),
			log.Int("contacts", next.CollisionCount()),
			log.Uint64("checksum", next.Checksum()),
		)
	}
	return next
}

// Run ticks until ctx is cancelled or MaxSteps is reached. Steps that fall behind the wall
// clock are not replayed; the simulation slows down instead.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	r.logger.Info("simulation started",
		log.Int("tick_rate", r.config.TickRate),
		log.Uint64("generation", r.State().Generation()),
	)

	ticker := time.NewTicker(r.config.TickInterval())
	defer ticker.Stop()

	var steps uint64
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("simulation stopped", log.Uint64("steps", steps))
			return nil
		case <-ticker.C:
			r.Tick()
			steps++
			if r.config.MaxSteps > 0 && steps >= r.config.MaxSteps {
				r.logger.Info("simulation finished", log.Uint64("steps", steps))
				return nil
			}
		}
	}
}

func (r *Runner) Running() bool {
	return r.running.Load()
}
