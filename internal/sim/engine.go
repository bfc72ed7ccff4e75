package sim

import (
	"time"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/l1jgo/factory/internal/core/event"
	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/spatial"
	"github.com/l1jgo/factory/internal/system"
	"github.com/l1jgo/factory/internal/world"
	"go.uber.org/zap"
)

// Options configure an Engine.
type Options struct {
	World world.Options
	// Extent is the half width of the spatial index root.
	Extent int32
	// ReportInterval is the number of ticks between production reports;
	// zero disables them.
	ReportInterval int
	// TickRate is passed to systems as the tick duration.
	TickRate time.Duration
}

func DefaultOptions() Options {
	return Options{
		World:    world.DefaultOptions(),
		Extent:   spatial.DefaultExtent,
		TickRate: 50 * time.Millisecond,
	}
}

// Engine owns the double-buffered world and the tick pipeline:
// events → scripts → compact → remap → miners, factories, belts → swap → index.
// It is the surface the presentation layer talks to. Not safe for
// concurrent use.
type Engine struct {
	opts    Options
	gens    *world.Generations
	remap   *world.Remap
	index   *spatial.BuildingIndex
	bus     *event.Bus
	runner  *coresys.Runner
	compact *system.CompactSystem
	report  *system.ReportSystem
	log     *zap.Logger
}

func New(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Extent == 0 {
		opts.Extent = spatial.DefaultExtent
	}
	// Spawns outside the index root are refused at placement.
	opts.World.Extent = opts.Extent
	gens := world.NewGenerations(opts.World, log)
	e := &Engine{
		opts:   opts,
		gens:   gens,
		remap:  world.NewRemap(opts.World.Capacity),
		index:  spatial.NewBuildingIndex(opts.Extent),
		bus:    event.NewBus(),
		runner: coresys.NewRunner(),
		log:    log,
	}
	e.compact = system.NewCompactSystem(gens, e.remap, e.index, e.bus, log)
	e.report = system.NewReportSystem(gens, e.index, opts.ReportInterval, log)

	e.runner.Register(system.NewEventSystem(e.bus))
	e.runner.Register(e.compact)
	e.runner.Register(system.NewRemapSystem(gens, e.remap))
	e.runner.Register(system.NewMinerSystem(gens))
	e.runner.Register(system.NewFactorySystem(gens))
	e.runner.Register(system.NewBeltSystem(gens))
	e.runner.Register(system.NewSwapSystem(gens, e.bus))
	e.runner.Register(system.NewIndexSystem(gens, e.index))
	e.runner.Register(e.report)
	return e
}

// Register adds an extra system to the tick pipeline.
func (e *Engine) Register(s coresys.System) { e.runner.Register(s) }

func (e *Engine) Bus() *event.Bus                    { return e.bus }
func (e *Engine) Generations() *world.Generations    { return e.gens }
func (e *Engine) Index() *spatial.BuildingIndex      { return e.index }
func (e *Engine) Totals() system.Totals              { return e.report.Totals() }
func (e *Engine) LastCompaction() world.CompactStats { return e.compact.Last() }

// State returns the current generation for read access. The pointer is
// superseded by the next Advance.
func (e *Engine) State() *world.State { return e.gens.Current() }

// Tick returns the number of completed ticks.
func (e *Engine) Tick() uint64 { return e.gens.Current().Tick }

// Advance runs one full tick and swaps generations.
func (e *Engine) Advance() {
	e.runner.Tick(e.opts.TickRate)
}

// AdvanceN runs n ticks.
func (e *Engine) AdvanceN(n int) {
	for i := 0; i < n; i++ {
		e.Advance()
	}
}

func (e *Engine) SpawnMiner(pos world.Coord) ecs.ID   { return e.Spawn(ecs.KindMiner, pos) }
func (e *Engine) SpawnFactory(pos world.Coord) ecs.ID { return e.Spawn(ecs.KindFactory, pos) }
func (e *Engine) SpawnBelt(pos world.Coord) ecs.ID    { return e.Spawn(ecs.KindBelt, pos) }

// Spawn places a building in the current generation. Returns 0 when the
// store is full, the footprint is taken or it leaves the index extent.
func (e *Engine) Spawn(k ecs.Kind, pos world.Coord) ecs.ID {
	id := e.gens.Current().Spawn(k, pos)
	if id == 0 {
		return 0
	}
	e.index.Invalidate()
	event.Emit(e.bus, event.BuildingSpawned{ID: id, Kind: k, X: pos.X, Y: pos.Y})
	return id
}

// Connect links source's output to target.
func (e *Engine) Connect(source, target ecs.ID) bool {
	if !e.gens.Current().Connect(source, target) {
		event.Emit(e.bus, event.ConnectRejected{Source: source, Target: target})
		return false
	}
	return true
}

// Delete flags a building for removal at the next Advance.
func (e *Engine) Delete(id ecs.ID) bool {
	cur := e.gens.Current()
	if !cur.Delete(id) {
		return false
	}
	e.index.Invalidate()
	event.Emit(e.bus, event.BuildingDeleted{ID: id, Kind: cur.Building(id).Kind})
	return true
}

// Lookup returns the building covering pos, or 0.
func (e *Engine) Lookup(pos world.Coord) ecs.ID {
	return e.gens.Current().Lookup(pos)
}

// SpatialQuery returns the live buildings with at least one cell inside
// box, each once, in ascending id order.
func (e *Engine) SpatialQuery(box spatial.AABB) []ecs.ID {
	return e.index.Query(e.gens.Current(), box)
}

// Resolve maps a building id held from before the last Advance to its id
// in the current generation, or 0 if it was removed. Ids from older
// generations cannot be resolved.
func (e *Engine) Resolve(prev ecs.ID) ecs.ID {
	return e.remap.Resolve(prev)
}

// Reset empties the world.
func (e *Engine) Reset() {
	e.gens.Reset()
	e.index.Invalidate()
}
