package system

import (
	"time"

	"github.com/l1jgo/factory/internal/core/event"
	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/spatial"
	"github.com/l1jgo/factory/internal/world"
	"go.uber.org/zap"
)

// CompactSystem copies the live entities of the current generation into
// the next one and records the id mapping. Phase 1 (Compact).
type CompactSystem struct {
	gens  *world.Generations
	remap *world.Remap
	index *spatial.BuildingIndex
	bus   *event.Bus
	log   *zap.Logger
	last  world.CompactStats
}

func NewCompactSystem(gens *world.Generations, remap *world.Remap, index *spatial.BuildingIndex, bus *event.Bus, log *zap.Logger) *CompactSystem {
	return &CompactSystem{gens: gens, remap: remap, index: index, bus: bus, log: log}
}

func (s *CompactSystem) Phase() coresys.Phase { return coresys.PhaseCompact }

// Last returns what the most recent pass dropped.
func (s *CompactSystem) Last() world.CompactStats { return s.last }

func (s *CompactSystem) Update(_ time.Duration) {
	cur := s.gens.Current()
	s.last = world.CompactInto(s.gens.Next(), cur, s.remap)
	if s.last.Total() == 0 {
		return
	}
	// Building ids shift after a removal.
	s.index.Invalidate()
	s.log.Debug("generation compacted",
		zap.Uint64("tick", cur.Tick),
		zap.Int("buildings", s.last.Buildings),
		zap.Int("miners", s.last.Miners),
		zap.Int("factories", s.last.Factories),
		zap.Int("belts", s.last.Belts))
	event.Emit(s.bus, event.GenerationCompacted{
		Tick:      cur.Tick,
		Buildings: s.last.Buildings,
		Miners:    s.last.Miners,
		Factories: s.last.Factories,
		Belts:     s.last.Belts,
	})
}
