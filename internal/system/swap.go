package system

import (
	"time"

	"github.com/l1jgo/factory/internal/core/event"
	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/world"
)

// SwapSystem closes the tick: the simulated generation becomes current
// and the superseded one turns into scratch for the next pass.
// Phase 4 (Swap).
type SwapSystem struct {
	gens *world.Generations
	bus  *event.Bus
}

func NewSwapSystem(gens *world.Generations, bus *event.Bus) *SwapSystem {
	return &SwapSystem{gens: gens, bus: bus}
}

func (s *SwapSystem) Phase() coresys.Phase { return coresys.PhaseSwap }

func (s *SwapSystem) Update(_ time.Duration) {
	next := s.gens.Next()
	next.Tick++
	s.gens.Swap()

	event.Emit(s.bus, event.TickCompleted{
		Tick:      next.Tick,
		Mined:     next.Stats.Mined,
		Started:   next.Stats.Started,
		Produced:  next.Stats.Produced,
		Handoffs:  next.Stats.Handoffs,
		Buildings: next.BuildingCount(),
	})
}
