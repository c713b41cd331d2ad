package physics

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/sectorsim/internal/core/events/bus"
	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/pkg/concurrent"
)

type options struct {
	logger      log.Log
	events      bus.EventBus
	broadPhase  BroadPhase
	skipResting bool
	workers     int
}

type Option func(*options)

func WithLogger(l log.Log) Option {
	return func(o *options) { o.logger = l }
}

// WithEventBus publishes one EventCollision per detected pair after every step.
func WithEventBus(b bus.EventBus) Option {
	return func(o *options) { o.events = b }
}

func WithBroadPhase(b BroadPhase) Option {
	return func(o *options) { o.broadPhase = b }
}

// WithSkipRestingPairs controls whether pairs of zero-velocity bodies are tested. Skipping
// is the default; it can leave overlaps from the previous step unresolved.
func WithSkipRestingPairs(skip bool) Option {
	return func(o *options) { o.skipResting = skip }
}

// WithWorkers runs the impulse pass on up to n goroutines. n <= 1 keeps it serial.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// State is one immutable generation of the simulation. Each step produces a new State;
// bodies keep their handles across generations.
type State struct {
	generation uint64
	gravity    geometry.Vector2
	dt         float64

	bodies     []Body
	index      map[Handle]int
	collisions Collisions
	contacts   []Contact

	opts   options
	tester *Tester
}

// NewState steps bodies once under gravity over dt and returns the resulting generation.
// A nil body slice is logged and yields an empty state.
func NewState(bodies []Body, gravity geometry.Vector2, dt float64, opts ...Option) *State {
	o := options{skipResting: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Provide()
	}
	o.logger = o.logger.With(log.String("system", "physics"))

	s := &State{
		gravity: gravity,
		dt:      dt,
		opts:    o,
		tester:  NewTester(o.broadPhase, o.skipResting),
	}
	s.step(bodies)
	return s
}

// Next steps bodies from this generation's settings, producing generation+1.
func (s *State) Next(bodies []Body, dt float64) *State {
	next := &State{
		generation: s.generation + 1,
		gravity:    s.gravity,
		dt:         dt,
		opts:       s.opts,
		tester:     s.tester,
	}
	next.step(bodies)
	return next
}

// Step advances this generation's own bodies by dt.
func (s *State) Step(dt float64) *State {
	return s.Next(s.bodies, dt)
}

func (s *State) step(input []Body) {
	logger := s.opts.logger
	if input == nil {
		logger.Warn("nil body collection, producing empty state", log.Uint64("generation", s.generation))
		s.bodies = []Body{}
		s.index = map[Handle]int{}
		s.collisions = Collisions{}
		return
	}

	bodies := make([]Body, 0, len(input))
	for i, b := range input {
		if b == nil {
			logger.Warn("nil body skipped", log.Int("index", i), log.Uint64("generation", s.generation))
			continue
		}
		bodies = append(bodies, b)
	}

	gravity, dt := s.gravity, s.dt
	bodies = concurrent.ParallelMap(bodies, s.opts.workers, func(b Body) Body {
		return b.ImpulsePass(gravity, dt)
	})

	// every pair test must see post-impulse positions, so detection finishes first
	collisions, contacts := s.tester.GetCollisions(bodies)

	for i, b := range bodies {
		if list, ok := collisions[b.Handle()]; ok {
			bodies[i] = b.CollisionPass(list)
		}
	}

	s.bodies = bodies
	s.collisions = collisions
	s.contacts = contacts
	s.index = make(map[Handle]int, len(bodies))
	for i, b := range bodies {
		if _, dup := s.index[b.Handle()]; dup {
			logger.Warn("duplicate body handle", log.Stringer("body", b.Handle()))
			continue
		}
		s.index[b.Handle()] = i
	}

	logger.Debug("physics step",
		log.Uint64("generation", s.generation),
		log.Int("bodies", len(bodies)),
		log.Int("contacts", len(contacts)),
		log.Float64("dt", dt),
	)

	s.publish(logger)
}

func (s *State) Generation() uint64        { return s.generation }
func (s *State) Gravity() geometry.Vector2 { return s.gravity }
func (s *State) DeltaT() float64           { return s.dt }
func (s *State) Len() int                  { return len(s.bodies) }
func (s *State) CollisionCount() int       { return len(s.contacts) }
func (s *State) Contacts() []Contact       { return slices.Clone(s.contacts) }

// Bodies returns the bodies of this generation in input order.
func (s *State) Bodies() []Body {
	return slices.Clone(s.bodies)
}

func (s *State) Body(h Handle) (Body, bool) {
	i, ok := s.index[h]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// Collisions returns the contacts h took part in during the step that produced this state.
func (s *State) Collisions(h Handle) []CollisionData {
	return slices.Clone(s.collisions[h])
}

// Checksum hashes handles, positions and velocities in body order. Equal generations
// produce equal checksums.
func (s *State) Checksum() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	for _, b := range s.bodies {
		h := b.Handle()
		p := b.Position()
		v := b.Velocity()

		buf = buf[:0]
		buf = append(buf, h[:]...)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(p.X.Sector))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.X.Subposition))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Y.Sector))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Y.Subposition))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Y))
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
