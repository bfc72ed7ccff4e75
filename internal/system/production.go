package system

import (
	"time"

	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/world"
)

// MinerSystem advances every miner of the next generation.
// Phase 3 (Simulate), registered before factories and belts.
type MinerSystem struct {
	gens *world.Generations
}

func NewMinerSystem(gens *world.Generations) *MinerSystem {
	return &MinerSystem{gens: gens}
}

func (s *MinerSystem) Phase() coresys.Phase { return coresys.PhaseSimulate }

func (s *MinerSystem) Update(_ time.Duration) {
	s.gens.Next().SimulateMiners()
}

// FactorySystem advances every factory of the next generation.
// Phase 3 (Simulate).
type FactorySystem struct {
	gens *world.Generations
}

func NewFactorySystem(gens *world.Generations) *FactorySystem {
	return &FactorySystem{gens: gens}
}

func (s *FactorySystem) Phase() coresys.Phase { return coresys.PhaseSimulate }

func (s *FactorySystem) Update(_ time.Duration) {
	s.gens.Next().SimulateFactories()
}

// BeltSystem advances every belt of the next generation.
// Phase 3 (Simulate), registered last so belts see this tick's deposits.
type BeltSystem struct {
	gens *world.Generations
}

func NewBeltSystem(gens *world.Generations) *BeltSystem {
	return &BeltSystem{gens: gens}
}

func (s *BeltSystem) Phase() coresys.Phase { return coresys.PhaseSimulate }

func (s *BeltSystem) Update(_ time.Duration) {
	s.gens.Next().SimulateBelts()
}
