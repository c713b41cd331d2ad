package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/core/observability/metrics"
	"github.com/zeusync/sectorsim/internal/core/systems/physics"
)

func testScene(t *testing.T) []physics.Body {
	t.Helper()
	bodies, err := BuildScene(DefaultSceneConfig(), physics.BuiltinMaterials())
	require.NoError(t, err)
	return bodies
}

func newTestRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	state := physics.NewBuilder(physics.WithLogger(log.Nop())).Build(cfg.DeltaT())
	r, err := NewRunner(state, cfg, log.Nop())
	require.NoError(t, err)
	return r
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{TickRate: 0}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{TickRate: 5000}.Validate(), ErrInvalidConfig)

	c := Config{TickRate: 50}
	assert.InDelta(t, 0.02, c.DeltaT(), 1e-12)
	assert.Equal(t, 20*time.Millisecond, c.TickInterval())
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	_, err := NewRunner(nil, Config{}, log.Nop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewRunnerWithoutState(t *testing.T) {
	r, err := NewRunner(nil, DefaultConfig(), log.Nop())
	require.NoError(t, err)
	require.NotNil(t, r.State())
	assert.Equal(t, 0, r.State().Len())
}

func TestTickAdvancesGenerations(t *testing.T) {
	cfg := DefaultConfig()
	state := physics.NewState(testScene(t), physics.DefaultGravity, cfg.DeltaT(), physics.WithLogger(log.Nop()))
	r, err := NewRunner(state, cfg, log.Nop())
	require.NoError(t, err)

	var seen []uint64
	cancel := r.OnStep(func(s *physics.State) { seen = append(seen, s.Generation()) })

	r.Tick()
	r.Tick()
	cancel()
	r.Tick()

	assert.Equal(t, []uint64{1, 2}, seen)
	assert.Equal(t, uint64(3), r.State().Generation())
	assert.Equal(t, state.Len(), r.State().Len())
}

func TestTickRecordsMetrics(t *testing.T) {
	r := newTestRunner(t, DefaultConfig())
	reg := metrics.NewRegistry()
	r.Instrument(reg)

	r.Tick()
	r.Tick()

	assert.Equal(t, uint64(2), reg.Counter("sim.steps").Value())
	assert.Equal(t, 2.0, reg.Gauge("sim.generation").Value())
	assert.Equal(t, 0.0, reg.Gauge("sim.bodies").Value())
}

func TestRunStopsAfterMaxSteps(t *testing.T) {
	r := newTestRunner(t, Config{TickRate: 1000, MaxSteps: 5})

	var steps atomic.Int32
	r.OnStep(func(*physics.State) { steps.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, r.Run(ctx))
	assert.Equal(t, int32(5), steps.Load())
	assert.Equal(t, uint64(5), r.State().Generation())
	assert.False(t, r.Running())
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newTestRunner(t, Config{TickRate: 1000})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return r.State().Generation() >= 3 }, 5*time.Second, time.Millisecond)
	assert.ErrorIs(t, r.Run(ctx), ErrAlreadyRunning)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestBuildScene(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Origin = [2]int{1 << 30, -(1 << 30)}

	bodies, err := BuildScene(cfg, physics.BuiltinMaterials())
	require.NoError(t, err)

	kinds := map[physics.BodyKind]int{}
	for _, b := range bodies {
		kinds[b.Kind()]++
		assert.GreaterOrEqual(t, b.Position().X.Sector, 1<<30)
	}
	assert.Equal(t, cfg.Boxes, kinds[physics.KindRigid])
	// 600px floor and walls span three sectors each
	assert.Equal(t, 9, kinds[physics.KindStatic])
}

func TestSectorTiles(t *testing.T) {
	tiles := sectorTiles(150, 20, 300, 20)
	require.Len(t, tiles, 3)
	assert.InDelta(t, 50, tiles[0].Size().X, 1e-9)
	assert.InDelta(t, 200, tiles[1].Size().X, 1e-9)
	assert.InDelta(t, 50, tiles[2].Size().X, 1e-9)
	assert.InDelta(t, 150, tiles[0].BottomLeft().X, 1e-9)
	assert.InDelta(t, 20, tiles[2].BottomLeft().Y, 1e-9)

	assert.Len(t, sectorTiles(0, 0, 200, 200), 1)
	assert.Len(t, sectorTiles(-10, -10, 20, 20), 4)
}

func TestBuildSceneUnknownMaterial(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Materials = []string{"rubber", "adamantium"}

	_, err := BuildScene(cfg, physics.BuiltinMaterials())
	assert.ErrorIs(t, err, physics.ErrUnknownMaterial)
}

func TestSceneSettlesAboveFloor(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Boxes = 6
	bodies, err := BuildScene(cfg, physics.BuiltinMaterials())
	require.NoError(t, err)

	s := physics.NewState(bodies, physics.DefaultGravity, 1.0/60,
		physics.WithLogger(log.Nop()),
		physics.WithBroadPhase(physics.BroadPhaseNeighborhood),
		physics.WithSkipRestingPairs(false),
	)
	for i := 0; i < 300; i++ {
		s = s.Step(1.0 / 60)
	}

	for _, b := range s.Bodies() {
		if b.Kind() != physics.KindRigid {
			continue
		}
		// floor top is at y = 20; allow a little sink from per-step penetration
		y := b.Position().Y.PixelDistance(bodies[0].Position().Y)
		assert.Greater(t, y, 10.0, "body %s fell through the floor", b.Handle())
	}
}
