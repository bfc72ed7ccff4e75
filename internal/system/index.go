package system

import (
	"time"

	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/spatial"
	"github.com/l1jgo/factory/internal/world"
)

// IndexSystem rebuilds the spatial index against the current generation
// when spawns, deletions or a compaction made it stale. Phase 5 (Index).
type IndexSystem struct {
	gens  *world.Generations
	index *spatial.BuildingIndex
}

func NewIndexSystem(gens *world.Generations, index *spatial.BuildingIndex) *IndexSystem {
	return &IndexSystem{gens: gens, index: index}
}

func (s *IndexSystem) Phase() coresys.Phase { return coresys.PhaseIndex }

func (s *IndexSystem) Update(_ time.Duration) {
	if s.index.Dirty() {
		s.index.Rebuild(s.gens.Current())
	}
}
