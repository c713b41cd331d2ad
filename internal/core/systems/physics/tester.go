package physics

import (
	"fmt"
	"strings"

	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/systems/physics/collision"
	"github.com/zeusync/sectorsim/internal/core/world"
	"github.com/zeusync/sectorsim/pkg/generic"
)

// BroadPhase selects how candidate pairs are found before SAT runs.
type BroadPhase uint8

const (
	// BroadPhaseSector only pairs bodies whose positions share a sector. Bodies straddling a
	// sector boundary are missed.
	BroadPhaseSector BroadPhase = iota
	// BroadPhaseNeighborhood also pairs bodies in the eight surrounding sectors.
	BroadPhaseNeighborhood
)

func (b BroadPhase) String() string {
	switch b {
	case BroadPhaseSector:
		return "sector"
	case BroadPhaseNeighborhood:
		return "neighborhood"
	default:
		return fmt.Sprintf("BroadPhase(%d)", uint8(b))
	}
}

func ParseBroadPhase(s string) (BroadPhase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sector":
		return BroadPhaseSector, nil
	case "neighborhood", "neighbourhood":
		return BroadPhaseNeighborhood, nil
	default:
		return 0, fmt.Errorf("%w: unknown broad phase %q", ErrInvalidConfig, s)
	}
}

// Collisions maps a body handle to the contacts it takes part in this step. A missing
// handle means no contacts.
type Collisions map[Handle][]CollisionData

// Contact is one detected pair. MTV is expressed for A; B receives its negation.
type Contact struct {
	A, B Handle
	MTV  geometry.Vector2
}

// forwardNeighbors visits each unordered pair of adjacent cells once.
var forwardNeighbors = [...][2]int{{1, -1}, {1, 0}, {1, 1}, {0, 1}}

const maxStaleCells = 4096

// sectorGroups buckets body indices by sector. Buckets keep their backing arrays between
// steps; order lists the sectors that are non-empty this step, in first-seen order.
type sectorGroups struct {
	order []world.SectorKey
	cells map[world.SectorKey][]int
}

func (g *sectorGroups) add(key world.SectorKey, index int) {
	cell := g.cells[key]
	if len(cell) == 0 {
		g.order = append(g.order, key)
	}
	g.cells[key] = append(cell, index)
}

func (g *sectorGroups) reset() {
	if len(g.cells) > maxStaleCells {
		clear(g.cells)
	} else {
		for k, cell := range g.cells {
			g.cells[k] = cell[:0]
		}
	}
	g.order = g.order[:0]
}

// Tester finds every colliding pair in a generation of bodies. It is safe for concurrent use.
type Tester struct {
	broadPhase  BroadPhase
	skipResting bool
	groups      *generic.Pool[*sectorGroups]
}

func NewTester(broadPhase BroadPhase, skipResting bool) *Tester {
	return &Tester{
		broadPhase:  broadPhase,
		skipResting: skipResting,
		groups: generic.NewResetPool(
			func() *sectorGroups {
				return &sectorGroups{cells: make(map[world.SectorKey][]int)}
			},
			(*sectorGroups).reset,
		),
	}
}

// GetCollisions runs the broad and narrow phase over bodies. Nil entries are ignored.
// Contacts are listed in detection order, which is deterministic for a given input order.
func (t *Tester) GetCollisions(bodies []Body) (Collisions, []Contact) {
	out := make(Collisions)
	var contacts []Contact

	g := t.groups.Get()
	defer t.groups.Put(g)

	for i, b := range bodies {
		if b == nil {
			continue
		}
		g.add(b.Position().Sector(), i)
	}

	emit := func(i, j int) {
		if i > j {
			i, j = j, i
		}
		a, b := bodies[i], bodies[j]
		mtv, ok := t.testBodies(a, b)
		if !ok {
			return
		}
		out[a.Handle()] = append(out[a.Handle()], newCollisionData(b, mtv))
		out[b.Handle()] = append(out[b.Handle()], newCollisionData(a, mtv.Neg()))
		contacts = append(contacts, Contact{A: a.Handle(), B: b.Handle(), MTV: mtv})
	}

	for _, key := range g.order {
		members := g.cells[key]
		for n, i := range members {
			for _, j := range members[n+1:] {
				emit(i, j)
			}
			if t.broadPhase != BroadPhaseNeighborhood {
				continue
			}
			for _, off := range forwardNeighbors {
				for _, j := range g.cells[key.Offset(off[0], off[1])] {
					emit(i, j)
				}
			}
		}
	}

	return out, contacts
}

func (t *Tester) testBodies(a, b Body) (geometry.Vector2, bool) {
	if colliderOrNil(a.Collider()) == nil || colliderOrNil(b.Collider()) == nil {
		return geometry.Zero, false
	}
	if t.skipResting && a.Velocity().IsZero() && b.Velocity().IsZero() {
		return geometry.Zero, false
	}
	return collision.TestPair(a.Position(), a.Collider(), b.Position(), b.Collider())
}
