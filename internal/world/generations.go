package world

import "go.uber.org/zap"

// Generations is the double buffer of entity stores. Current is the
// generation callers read and build into; Next is scratch that the
// compaction pass overwrites before Swap promotes it.
type Generations struct {
	current *State
	next    *State
}

func NewGenerations(opts Options, log *zap.Logger) *Generations {
	return &Generations{
		current: NewState(opts, log),
		next:    NewState(opts, log),
	}
}

func (g *Generations) Current() *State { return g.current }
func (g *Generations) Next() *State    { return g.next }

// Swap promotes Next to Current. Ids held from the superseded generation
// must be re-resolved through the last Remap.
func (g *Generations) Swap() {
	g.current, g.next = g.next, g.current
}

// Reset empties both generations.
func (g *Generations) Reset() {
	g.current.Reset()
	g.next.Reset()
}
