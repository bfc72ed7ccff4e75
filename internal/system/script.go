package system

import (
	"time"

	coresys "github.com/l1jgo/factory/internal/core/system"
	"github.com/l1jgo/factory/internal/scripting"
	"github.com/l1jgo/factory/internal/world"
)

// ScriptSystem calls the Lua on_tick hook before the tick is compacted,
// so anything a script spawns or deletes lands in this tick's pass.
// Phase 0 (Input), registered after EventSystem.
type ScriptSystem struct {
	gens *world.Generations
	lua  *scripting.Engine
}

func NewScriptSystem(gens *world.Generations, lua *scripting.Engine) *ScriptSystem {
	return &ScriptSystem{gens: gens, lua: lua}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ScriptSystem) Update(_ time.Duration) {
	s.lua.OnTick(s.gens.Current().Tick)
}
