package server

import (
	"math"

	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/systems/physics"
	"github.com/zeusync/sectorsim/internal/core/systems/physics/collision"
)

// Snapshot is the wire form of one generation, as sent to debug renderers.
type Snapshot struct {
	Generation uint64           `json:"generation"`
	Checksum   uint64           `json:"checksum,string"`
	Gravity    geometry.Vector2 `json:"gravity"`
	DeltaT     float64          `json:"dt"`
	Bodies     []BodySnapshot   `json:"bodies"`
}

type BodySnapshot struct {
	Handle      physics.Handle     `json:"handle"`
	Kind        string             `json:"kind"`
	Sector      [2]int             `json:"sector"`
	Subposition geometry.Vector2   `json:"subposition"`
	Velocity    geometry.Vector2   `json:"velocity"`
	Mass        float64            `json:"mass,omitempty"`
	Contacts    int                `json:"contacts,omitempty"`
	Shape       []geometry.Vector2 `json:"shape,omitempty"`
}

func NewSnapshot(s *physics.State) Snapshot {
	bodies := s.Bodies()
	snap := Snapshot{
		Generation: s.Generation(),
		Checksum:   s.Checksum(),
		Gravity:    s.Gravity(),
		DeltaT:     s.DeltaT(),
		Bodies:     make([]BodySnapshot, len(bodies)),
	}

	for i, b := range bodies {
		pos := b.Position()
		bs := BodySnapshot{
			Handle:      b.Handle(),
			Kind:        b.Kind().String(),
			Sector:      [2]int{pos.X.Sector, pos.Y.Sector},
			Subposition: pos.Subposition(),
			Velocity:    b.Velocity(),
			Contacts:    len(s.Collisions(b.Handle())),
		}
		// infinite mass doesn't encode to JSON
		if !math.IsInf(b.Mass(), 0) && !math.IsNaN(b.Mass()) {
			bs.Mass = b.Mass()
		}
		if c, ok := b.Collider().(*collision.ConvexCollider); ok {
			bs.Shape = c.Shape().Points()
		}
		snap.Bodies[i] = bs
	}
	return snap
}
