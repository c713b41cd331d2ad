package sim

import (
	"math"

	"github.com/zeusync/sectorsim/internal/core/geometry"
	"github.com/zeusync/sectorsim/internal/core/systems/physics"
	"github.com/zeusync/sectorsim/internal/core/systems/physics/collision"
	"github.com/zeusync/sectorsim/internal/core/world"
)

// SceneConfig describes the demo scene: a floor, two walls and columns of falling boxes.
// Floor and walls are tiled per sector.
type SceneConfig struct {
	Boxes     int      `yaml:"boxes" json:"boxes"`
	BoxSize   float64  `yaml:"box_size" json:"box_size"`
	Width     float64  `yaml:"width" json:"width"`
	Origin    [2]int   `yaml:"origin_sector" json:"origin_sector"`
	Materials []string `yaml:"materials" json:"materials"`
	Floor     string   `yaml:"floor_material" json:"floor_material"`
}

func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Boxes:     24,
		BoxSize:   20,
		Width:     600,
		Materials: []string{"rubber", "wood", "steel", "ice"},
		Floor:     "concrete",
	}
}

const wallThickness = 20

// sectorTiles cuts the box at (x, y) of size w x h along sector boundaries, so every
// piece lies in one sector and is found by the sector broad phase.
func sectorTiles(x, y, w, h float64) []geometry.Rect {
	cuts := func(from, length float64) []float64 {
		out := []float64{from}
		end := from + length
		for c := from; c < end; {
			next := math.Min(end, (math.Floor(c/world.PixelsPerSector)+1)*world.PixelsPerSector)
			out = append(out, next)
			c = next
		}
		return out
	}

	xs, ys := cuts(x, w), cuts(y, h)
	tiles := make([]geometry.Rect, 0, (len(xs)-1)*(len(ys)-1))
	for i := 0; i+1 < len(xs); i++ {
		for j := 0; j+1 < len(ys); j++ {
			size := geometry.Vec(xs[i+1]-xs[i], ys[j+1]-ys[j])
			center := geometry.Vec(xs[i], ys[j]).Add(size.Scale(0.5))
			tiles = append(tiles, geometry.NewRect(center, size.Scale(0.5)))
		}
	}
	return tiles
}

// BuildScene lays the scene out from the origin sector. Box materials cycle through
// cfg.Materials; unknown names fail with physics.ErrUnknownMaterial.
func BuildScene(cfg SceneConfig, lib physics.MaterialLibrary) ([]physics.Body, error) {
	floorMat, err := lib.Lookup(cfg.Floor)
	if err != nil {
		return nil, err
	}
	mats := make([]*physics.Material, 0, len(cfg.Materials))
	for _, name := range cfg.Materials {
		m, err := lib.Lookup(name)
		if err != nil {
			return nil, err
		}
		mats = append(mats, m)
	}
	if len(mats) == 0 {
		mats = append(mats, physics.DefaultMaterial)
	}

	origin := world.PointInSector(cfg.Origin[0], cfg.Origin[1], geometry.Zero)
	at := func(x, y float64) world.Point {
		return origin.PixelTranslate(geometry.Vec(x, y))
	}

	var bodies []physics.Body
	addStatic := func(x, y, w, h float64) {
		for _, r := range sectorTiles(x, y, w, h) {
			corner, size := r.BottomLeft(), r.Size()
			bodies = append(bodies, physics.NewStaticBody(at(corner.X, corner.Y), collision.NewBoxCollider(size.X, size.Y), floorMat))
		}
	}
	addStatic(0, 0, cfg.Width, wallThickness)
	addStatic(0, wallThickness, wallThickness, cfg.Width-wallThickness)
	addStatic(cfg.Width-wallThickness, wallThickness, wallThickness, cfg.Width-wallThickness)

	spacing := cfg.BoxSize * 1.5
	inner := cfg.Width - 2*wallThickness - cfg.BoxSize
	columns := max(1, int(inner/spacing))
	for i := 0; i < cfg.Boxes; i++ {
		col, row := i%columns, i/columns
		// odd rows are shifted so boxes land on edges rather than stacking flat
		shift := float64(row%2) * cfg.BoxSize / 2
		x := wallThickness + cfg.BoxSize/2 + float64(col)*spacing + shift
		y := wallThickness + 100 + float64(row)*spacing
		body := physics.NewRigidBody(at(x, y), collision.NewBoxCollider(cfg.BoxSize, cfg.BoxSize), 1+float64(i%3), mats[i%len(mats)])
		bodies = append(bodies, body.WithVelocity(geometry.Vec(float64(i%5-2)*15, 0)))
	}
	return bodies, nil
}
