package system

import (
	"time"

	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/spatial"
	"github.com/l1jgo/factory/internal/world"
	"go.uber.org/zap"
)

// Totals accumulates TickStats over the lifetime of a ReportSystem.
type Totals struct {
	Ticks    uint64
	Mined    int
	Started  int
	Produced int
	Handoffs int
}

// ReportSystem accumulates production counters every tick and logs a
// summary every interval ticks. Phase 5 (Index), after the index refresh.
type ReportSystem struct {
	gens     *world.Generations
	index    *spatial.BuildingIndex
	log      *zap.Logger
	interval int
	counter  int
	totals   Totals
}

func NewReportSystem(gens *world.Generations, index *spatial.BuildingIndex, interval int, log *zap.Logger) *ReportSystem {
	return &ReportSystem{gens: gens, index: index, interval: interval, log: log}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseIndex }

func (s *ReportSystem) Totals() Totals { return s.totals }

func (s *ReportSystem) Update(_ time.Duration) {
	cur := s.gens.Current()
	s.totals.Ticks++
	s.totals.Mined += cur.Stats.Mined
	s.totals.Started += cur.Stats.Started
	s.totals.Produced += cur.Stats.Produced
	s.totals.Handoffs += cur.Stats.Handoffs

	if s.interval <= 0 {
		return
	}
	s.counter++
	if s.counter < s.interval {
		return
	}
	s.counter = 0

	ts := s.index.Tree().Stats()
	s.log.Info("production report",
		zap.Uint64("tick", cur.Tick),
		zap.Int("buildings", cur.Buildings.Live()),
		zap.Int("miners", cur.Miners.Live()),
		zap.Int("factories", cur.Factories.Live()),
		zap.Int("belts", cur.Belts.Live()),
		zap.Int("mined", s.totals.Mined),
		zap.Int("produced", s.totals.Produced),
		zap.Int("belt_handoffs", s.totals.Handoffs),
		zap.Int("index_nodes", ts.Nodes))
}
