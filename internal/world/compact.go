package world

import (
	"fmt"

	"github.com/l1jgo/factory/internal/core/ecs"
)

// Remap carries the per-kind old→new id tables of one compaction pass.
// It is owned by the caller and reused across ticks.
type Remap struct {
	Buildings *ecs.RemapTable
	Miners    *ecs.RemapTable
	Factories *ecs.RemapTable
	Belts     *ecs.RemapTable
}

func NewRemap(capacity int) *Remap {
	return &Remap{
		Buildings: ecs.NewRemapTable(capacity),
		Miners:    ecs.NewRemapTable(capacity),
		Factories: ecs.NewRemapTable(capacity),
		Belts:     ecs.NewRemapTable(capacity),
	}
}

// Payload returns the table for a payload kind.
func (r *Remap) Payload(k ecs.Kind) *ecs.RemapTable {
	switch k {
	case ecs.KindMiner:
		return r.Miners
	case ecs.KindFactory:
		return r.Factories
	case ecs.KindBelt:
		return r.Belts
	}
	return nil
}

// Resolve maps a building id of the previous generation to its id in the
// current one, or 0 if the building was removed.
func (r *Remap) Resolve(prev ecs.ID) ecs.ID {
	return r.Buildings.Lookup(prev)
}

// CompactStats counts the entities dropped by one compaction.
type CompactStats struct {
	Buildings int
	Miners    int
	Factories int
	Belts     int
}

func (c CompactStats) Total() int {
	return c.Buildings + c.Miners + c.Factories + c.Belts
}

// CompactInto copies every live entity of src into dst, preserving
// relative order, and fills r with the id mapping. dst is overwritten;
// src is only read.
func CompactInto(dst, src *State, r *Remap) CompactStats {
	dst.Tick = src.Tick
	dst.Stats = TickStats{}
	return CompactStats{
		Buildings: ecs.CompactInto(dst.Buildings, src.Buildings, r.Buildings, (*Building).Deleted),
		Miners:    ecs.CompactInto(dst.Miners, src.Miners, r.Miners, (*Miner).Deleted),
		Factories: ecs.CompactInto(dst.Factories, src.Factories, r.Factories, (*Factory).Deleted),
		Belts:     ecs.CompactInto(dst.Belts, src.Belts, r.Belts, (*Belt).Deleted),
	}
}

// RemapRefs rewrites every cross reference in s through r. A building
// whose payload was dropped is a compaction bug and panics. Outputs that
// pointed at a removed entity become zero.
func RemapRefs(s *State, r *Remap) {
	s.Buildings.Each(func(id ecs.ID, b *Building) {
		table := r.Payload(b.Kind)
		if table == nil {
			panic(fmt.Sprintf("world: building %d has unknown kind %v", id, b.Kind))
		}
		data := table.Lookup(b.Data)
		if data == 0 {
			panic(fmt.Sprintf("world: building %d references removed %v %d", id, b.Kind, b.Data))
		}
		b.Data = data
	})
	s.Miners.Each(func(_ ecs.ID, m *Miner) { remapOutput(&m.Output, r) })
	s.Factories.Each(func(_ ecs.ID, f *Factory) { remapOutput(&f.Output, r) })
	s.Belts.Each(func(_ ecs.ID, b *Belt) { remapOutput(&b.Output, r) })
}

func remapOutput(out *ecs.Ref, r *Remap) {
	if out.IsZero() {
		return
	}
	table := r.Payload(out.Kind)
	if table == nil {
		*out = ecs.Ref{}
		return
	}
	out.Index = table.Lookup(out.Index)
}

// Advance builds the next generation from old into next: copy-compact,
// remap, then simulate. old is not modified.
func Advance(old, next *State, r *Remap) CompactStats {
	stats := CompactInto(next, old, r)
	RemapRefs(next, r)
	next.Simulate()
	next.Tick++
	return stats
}
