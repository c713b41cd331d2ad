package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/sectorsim/internal/core/events/bus"
	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/core/observability/metrics"
	"github.com/zeusync/sectorsim/internal/core/systems/physics"
	"github.com/zeusync/sectorsim/internal/server"
	"github.com/zeusync/sectorsim/internal/sim"
)

// App is everything the binary runs. Feed is nil when the debug feed is disabled.
type App struct {
	Config  Config
	Logger  *log.Logger
	Events  bus.EventBus
	Runner  *sim.Runner
	Metrics *metrics.Registry
	Feed    *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideEventBus,
	ProvideScene,
	ProvideState,
	ProvideRunner,
	ProvideFeed,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg Config) *log.Logger {
	return log.New(log.ParseLevel(cfg.LogLevel))
}

func ProvideMetrics() *metrics.Registry {
	return metrics.NewRegistry()
}

func ProvideEventBus(reg *metrics.Registry) bus.EventBus {
	b := bus.New()
	b.AddObserver(metrics.NewBusObserver(reg))
	return b
}

func ProvideScene(cfg Config) ([]physics.Body, error) {
	return sim.BuildScene(cfg.Scene, cfg.Physics.Library())
}

func ProvideState(cfg Config, scene []physics.Body, logger *log.Logger, events bus.EventBus) *physics.State {
	opts := append(cfg.Physics.Options(), physics.WithLogger(logger), physics.WithEventBus(events))
	return physics.NewState(scene, cfg.Physics.Gravity, cfg.Sim.DeltaT(), opts...)
}

func ProvideRunner(cfg Config, state *physics.State, logger *log.Logger, reg *metrics.Registry) (*sim.Runner, error) {
	r, err := sim.NewRunner(state, cfg.Sim, logger)
	if err != nil {
		return nil, err
	}
	r.Instrument(reg)
	return r, nil
}

// ProvideFeed wires the debug feed to the runner when a listen address is configured.
func ProvideFeed(cfg Config, runner *sim.Runner, logger *log.Logger, reg *metrics.Registry) *server.Server {
	if !cfg.Debug.Enabled() {
		return nil
	}
	feed := server.NewServer(cfg.Debug, logger)
	feed.SetMetrics(reg)
	runner.OnStep(feed.Publish)
	feed.Publish(runner.State())
	return feed
}
