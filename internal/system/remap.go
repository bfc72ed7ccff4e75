package system

import (
	"time"

	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/world"
)

// RemapSystem rewrites building payload indices and output references of
// the next generation. Phase 2 (Remap). Runs only after every table of
// the compaction pass is complete.
type RemapSystem struct {
	gens  *world.Generations
	remap *world.Remap
}

func NewRemapSystem(gens *world.Generations, remap *world.Remap) *RemapSystem {
	return &RemapSystem{gens: gens, remap: remap}
}

func (s *RemapSystem) Phase() coresys.Phase { return coresys.PhaseRemap }

func (s *RemapSystem) Update(_ time.Duration) {
	world.RemapRefs(s.gens.Next(), s.remap)
}
