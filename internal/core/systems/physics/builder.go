package physics

import (
	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
)

// DefaultGravity points down the screen in pixels per second squared.
var DefaultGravity = geometry.Vec(0, -550)

// Builder collects bodies for the first generation.
type Builder struct {
	bodies  []Body
	gravity geometry.Vector2
	opts    []Option
}

func NewBuilder(opts ...Option) *Builder {
	return &Builder{gravity: DefaultGravity, opts: opts}
}

// Add queues body and returns its handle. A nil body is logged and yields NilHandle.
func (b *Builder) Add(body Body) Handle {
	if body == nil {
		log.Provide().Warn("builder ignored nil body")
		return NilHandle
	}
	b.bodies = append(b.bodies, body)
	return body.Handle()
}

func (b *Builder) SetGravity(g geometry.Vector2) *Builder {
	b.gravity = g
	return b
}

func (b *Builder) Len() int { return len(b.bodies) }

// Build steps the queued bodies once and returns generation zero.
func (b *Builder) Build(dt float64) *State {
	bodies := make([]Body, len(b.bodies))
	copy(bodies, b.bodies)
	return NewState(bodies, b.gravity, dt, b.opts...)
}

func (b *Builder) Clear() {
	b.bodies = b.bodies[:0]
}
