package system

import (
	"time"

	"github.com/l1jgo/factory/internal/core/event"
	coresys "github.com/l1jgo/factory/internal/core/system"
)

// EventSystem rotates the event bus and delivers the previous tick's
// events. Phase 0 (Input).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
