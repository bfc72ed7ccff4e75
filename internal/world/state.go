package world

import (
	"github.com/l1jgo/factory/internal/core/ecs"
	"go.uber.org/zap"
)

// Options configure a State. Both generations of a double buffer must be
// built from the same Options.
type Options struct {
	// Capacity bounds every column, sentinel included.
	Capacity int
	// CheckFreeSpace rejects spawns whose footprint overlaps a live building.
	CheckFreeSpace bool
	// Extent bounds placement to [-Extent, Extent) on both axes, the area
	// the spatial index covers. Zero leaves placement unbounded.
	Extent int32
	Tuning Tuning
}

func DefaultOptions() Options {
	return Options{
		Capacity:       100_000,
		CheckFreeSpace: true,
		Extent:         1 << 16,
		Tuning:         DefaultTuning(),
	}
}

// State is one generation of the entity store: flat columns of buildings
// and per-kind payloads, cross-referenced by dense ids.
// Accessed only from the simulation goroutine, no locks.
type State struct {
	Buildings *ecs.Column[Building]
	Miners    *ecs.Column[Miner]
	Factories *ecs.Column[Factory]
	Belts     *ecs.Column[Belt]

	// Tick counts completed generations.
	Tick  uint64
	Stats TickStats

	opts Options
	log  *zap.Logger
}

// TickStats counts what the state machines did during one tick.
type TickStats struct {
	Mined    int // items handed off by miners
	Started  int // factory batches consumed
	Produced int // factory outputs handed off
	Handoffs int // items leaving the last belt slot
}

func NewState(opts Options, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	return &State{
		Buildings: ecs.NewColumn[Building](opts.Capacity),
		Miners:    ecs.NewColumn[Miner](opts.Capacity),
		Factories: ecs.NewColumn[Factory](opts.Capacity),
		Belts:     ecs.NewColumn[Belt](opts.Capacity),
		opts:      opts,
		log:       log,
	}
}

func (s *State) Options() Options { return s.opts }
func (s *State) Tuning() Tuning   { return s.opts.Tuning }

// Reset empties every column. Index 0 stays reserved so that a zero
// output reference expresses a missing connection.
func (s *State) Reset() {
	s.Buildings.Reset()
	s.Miners.Reset()
	s.Factories.Reset()
	s.Belts.Reset()
	s.Tick = 0
	s.Stats = TickStats{}
}

// Building returns the building with the given id, or nil.
func (s *State) Building(id ecs.ID) *Building { return s.Buildings.Get(id) }

func (s *State) Miner(idx ecs.ID) *Miner     { return s.Miners.Get(idx) }
func (s *State) Factory(idx ecs.ID) *Factory { return s.Factories.Get(idx) }
func (s *State) Belt(idx ecs.ID) *Belt       { return s.Belts.Get(idx) }

// BuildingCount returns the number of buildings, flagged ones included.
func (s *State) BuildingCount() int { return s.Buildings.Live() }

func (s *State) EachBuilding(fn func(ecs.ID, *Building)) { s.Buildings.Each(fn) }

// live returns the building for id unless it is the sentinel, out of
// range or flagged for deletion.
func (s *State) live(id ecs.ID) *Building {
	b := s.Buildings.Get(id)
	if b == nil || b.Deleted() {
		return nil
	}
	return b
}

// Output returns the output reference of the building's payload.
func (s *State) Output(id ecs.ID) (ecs.Ref, bool) {
	b := s.Buildings.Get(id)
	if b == nil {
		return ecs.Ref{}, false
	}
	switch b.Kind {
	case ecs.KindMiner:
		if m := s.Miners.Get(b.Data); m != nil {
			return m.Output, true
		}
	case ecs.KindFactory:
		if f := s.Factories.Get(b.Data); f != nil {
			return f.Output, true
		}
	case ecs.KindBelt:
		if bl := s.Belts.Get(b.Data); bl != nil {
			return bl.Output, true
		}
	}
	return ecs.Ref{}, false
}

// Lookup returns the live building whose footprint contains pos, or 0.
func (s *State) Lookup(pos Coord) ecs.ID {
	rows := s.Buildings.Rows()
	for i := range rows {
		b := &rows[i]
		if !b.Deleted() && b.Contains(pos) {
			return ecs.ID(i + 1)
		}
	}
	return 0
}

// SpaceIsFree reports whether no live building covers any cell of the
// inclusive rectangle [lo, hi].
func (s *State) SpaceIsFree(lo, hi Coord) bool {
	rows := s.Buildings.Rows()
	for i := range rows {
		b := &rows[i]
		if b.Deleted() {
			continue
		}
		m := b.Max()
		if b.Pos.X <= hi.X && lo.X <= m.X && b.Pos.Y <= hi.Y && lo.Y <= m.Y {
			return false
		}
	}
	return true
}

func (s *State) SpawnMiner(pos Coord) ecs.ID   { return s.Spawn(ecs.KindMiner, pos) }
func (s *State) SpawnFactory(pos Coord) ecs.ID { return s.Spawn(ecs.KindFactory, pos) }
func (s *State) SpawnBelt(pos Coord) ecs.ID    { return s.Spawn(ecs.KindBelt, pos) }

// Spawn places a building of kind k with its top-left cell at pos and
// returns its id. Returns 0 when the store is full, when the footprint
// leaves the placement extent or, with free-space checking on, when the
// footprint is occupied.
func (s *State) Spawn(k ecs.Kind, pos Coord) ecs.ID {
	size := s.opts.Tuning.SizeOf(k)
	if s.Buildings.Full() || s.payloadFull(k) {
		s.log.Debug("entity capacity exhausted",
			zap.Stringer("kind", k), zap.Int("capacity", s.opts.Capacity))
		return 0
	}
	if !s.InBounds(pos, size) {
		s.log.Debug("footprint out of bounds",
			zap.Stringer("kind", k), zap.Int32("x", pos.X), zap.Int32("y", pos.Y),
			zap.Int32("extent", s.opts.Extent))
		return 0
	}
	if s.opts.CheckFreeSpace {
		hi := Coord{X: pos.X + int32(size.W) - 1, Y: pos.Y + int32(size.H) - 1}
		if !s.SpaceIsFree(pos, hi) {
			s.log.Debug("no free space",
				zap.Stringer("kind", k), zap.Int32("x", pos.X), zap.Int32("y", pos.Y))
			return 0
		}
	}

	var data ecs.ID
	switch k {
	case ecs.KindMiner:
		data = s.Miners.Append(Miner{})
	case ecs.KindFactory:
		data = s.Factories.Append(Factory{})
	case ecs.KindBelt:
		data = s.Belts.Append(Belt{})
	default:
		return 0
	}
	return s.Buildings.Append(Building{
		Pos:  pos,
		Size: size,
		Kind: k,
		Data: data,
	})
}

// InBounds reports whether a footprint of the given size at pos lies
// inside the placement extent.
func (s *State) InBounds(pos Coord, size Size) bool {
	e := int64(s.opts.Extent)
	if e <= 0 {
		return true
	}
	x0, y0 := int64(pos.X), int64(pos.Y)
	x1, y1 := x0+int64(size.W), y0+int64(size.H)
	return x0 >= -e && y0 >= -e && x1 <= e && y1 <= e
}

func (s *State) payloadFull(k ecs.Kind) bool {
	switch k {
	case ecs.KindMiner:
		return s.Miners.Full()
	case ecs.KindFactory:
		return s.Factories.Full()
	case ecs.KindBelt:
		return s.Belts.Full()
	}
	return true
}

// direction returns which edge of source touches target, or DirNone.
// Left/right edges are scanned row by row before top/bottom edges.
func direction(source, target *Building) Direction {
	xLeft := source.Pos.X - 1
	xRight := source.Pos.X + int32(source.Size.W)
	for y := source.Pos.Y; y < source.Pos.Y+int32(source.Size.H); y++ {
		if target.Contains(Coord{X: xLeft, Y: y}) {
			return DirLeft
		}
		if target.Contains(Coord{X: xRight, Y: y}) {
			return DirRight
		}
	}

	yUp := source.Pos.Y - 1
	yDown := source.Pos.Y + int32(source.Size.H)
	for x := source.Pos.X; x < source.Pos.X+int32(source.Size.W); x++ {
		if target.Contains(Coord{X: x, Y: yDown}) {
			return DirDown
		}
		if target.Contains(Coord{X: x, Y: yUp}) {
			return DirUp
		}
	}
	return DirNone
}

// Connect points the output of source at target. Both must be live,
// distinct and share an edge; otherwise nothing changes and false is
// returned.
func (s *State) Connect(sourceID, targetID ecs.ID) bool {
	if sourceID == targetID {
		s.log.Warn("can't connect building to itself", zap.Uint32("id", uint32(sourceID)))
		return false
	}
	source, target := s.live(sourceID), s.live(targetID)
	if source == nil || target == nil {
		s.log.Warn("can't connect missing building",
			zap.Uint32("source", uint32(sourceID)), zap.Uint32("target", uint32(targetID)))
		return false
	}

	dir := direction(source, target)
	if dir == DirNone {
		s.log.Warn("can't connect buildings",
			zap.Uint32("source", uint32(sourceID)), zap.Uint32("target", uint32(targetID)))
		return false
	}

	out := ecs.Ref{Kind: target.Kind, Index: target.Data}
	switch source.Kind {
	case ecs.KindMiner:
		s.Miners.Get(source.Data).Output = out
	case ecs.KindFactory:
		s.Factories.Get(source.Data).Output = out
	case ecs.KindBelt:
		belt := s.Belts.Get(source.Data)
		belt.Output = out
		belt.Out = dir
	}
	if target.Kind == ecs.KindBelt {
		s.Belts.Get(target.Data).In = dir
	}
	return true
}

// Delete flags a building and its payload for removal at the next
// compaction. References to it stay in place until then.
func (s *State) Delete(id ecs.ID) bool {
	b := s.live(id)
	if b == nil {
		return false
	}
	b.Flags |= FlagDelete
	switch b.Kind {
	case ecs.KindMiner:
		if m := s.Miners.Get(b.Data); m != nil {
			m.Flags |= FlagDelete
		}
	case ecs.KindFactory:
		if f := s.Factories.Get(b.Data); f != nil {
			f.Flags |= FlagDelete
		}
	case ecs.KindBelt:
		if bl := s.Belts.Get(b.Data); bl != nil {
			bl.Flags |= FlagDelete
		}
	}
	return true
}

// TryPutItem deposits one item at the target of out. It succeeds iff the
// target is a live belt with an empty intake slot or a live factory with
// an empty input slot; otherwise nothing changes.
func (s *State) TryPutItem(out ecs.Ref, item Item) bool {
	if out.IsZero() || item == ItemNone {
		return false
	}
	switch out.Kind {
	case ecs.KindBelt:
		belt := s.Belts.Get(out.Index)
		if belt == nil || belt.Deleted() {
			return false
		}
		if belt.Items[0] == ItemNone {
			belt.Items[0] = item
			belt.Works[0] = 0
			return true
		}
	case ecs.KindFactory:
		f := s.Factories.Get(out.Index)
		if f == nil || f.Deleted() {
			return false
		}
		for i := range f.Items {
			if f.Items[i] == ItemNone {
				f.Items[i] = item
				return true
			}
		}
	}
	return false
}
