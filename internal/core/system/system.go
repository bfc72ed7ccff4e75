package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput    Phase = iota // 0: deliver last tick's events, run script hooks
	PhaseCompact               // 1: copy live entities into the next generation
	PhaseRemap                 // 2: rewrite cross references with the remap tables
	PhaseSimulate              // 3: miner / factory / belt state machines
	PhaseSwap                  // 4: next generation becomes current
	PhaseIndex                 // 5: refresh the spatial index
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseCompact:
		return "compact"
	case PhaseRemap:
		return "remap"
	case PhaseSimulate:
		return "simulate"
	case PhaseSwap:
		return "swap"
	case PhaseIndex:
		return "index"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
