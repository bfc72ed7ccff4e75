package world

import "github.com/l1jgo/factory/internal/core/ecs"

// Coord is a grid cell.
type Coord struct {
	X int32
	Y int32
}

func (c Coord) Equals(o Coord) bool { return c.X == o.X && c.Y == o.Y }

// Size is a building footprint in cells.
type Size struct {
	W uint8
	H uint8
}

// Item is a small positive item id. 0 always means empty.
type Item uint8

const ItemNone Item = 0

// Flags mark per-entity lifecycle bits.
type Flags uint32

const FlagDelete Flags = 1

// Direction is only used to place belt lanes when drawing.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Building is a placed entity. Data indexes the payload column of Kind.
type Building struct {
	Flags Flags
	Pos   Coord
	Size  Size
	Kind  ecs.Kind
	Data  ecs.ID
}

// Contains reports whether p lies in the building's footprint.
func (b *Building) Contains(p Coord) bool {
	return b.Pos.X <= p.X && p.X < b.Pos.X+int32(b.Size.W) &&
		b.Pos.Y <= p.Y && p.Y < b.Pos.Y+int32(b.Size.H)
}

func (b *Building) Deleted() bool { return b.Flags&FlagDelete != 0 }

// Max returns the bottom-right cell of the footprint (inclusive).
func (b *Building) Max() Coord {
	return Coord{X: b.Pos.X + int32(b.Size.W) - 1, Y: b.Pos.Y + int32(b.Size.H) - 1}
}

type MinerState uint8

const (
	MinerMining MinerState = iota
	MinerUnloading
)

func (s MinerState) String() string {
	if s == MinerUnloading {
		return "unloading"
	}
	return "mining"
}

type Miner struct {
	Flags    Flags
	Work     uint32
	State    MinerState
	NextItem uint8
	Output   ecs.Ref
}

func (m *Miner) Deleted() bool { return m.Flags&FlagDelete != 0 }

type FactoryState uint8

const (
	FactoryWaiting FactoryState = iota
	FactoryProducing
	FactoryUnloading
)

func (s FactoryState) String() string {
	switch s {
	case FactoryProducing:
		return "producing"
	case FactoryUnloading:
		return "unloading"
	}
	return "waiting"
}

// FactorySlots is the fixed number of factory inputs.
const FactorySlots = 4

type Factory struct {
	Flags  Flags
	Work   uint32
	State  FactoryState
	Items  [FactorySlots]Item
	Output ecs.Ref
}

func (f *Factory) Deleted() bool { return f.Flags&FlagDelete != 0 }

// Full reports whether every input slot holds an item.
func (f *Factory) Full() bool {
	for _, it := range f.Items {
		if it == ItemNone {
			return false
		}
	}
	return true
}

// BeltSlots is the fixed belt length. Slot 0 is the intake end.
const BeltSlots = 4

type Belt struct {
	Flags  Flags
	Items  [BeltSlots]Item
	Works  [BeltSlots]uint8
	Output ecs.Ref
	In     Direction
	Out    Direction
}

func (b *Belt) Deleted() bool { return b.Flags&FlagDelete != 0 }

// Count returns the number of occupied slots.
func (b *Belt) Count() int {
	n := 0
	for _, it := range b.Items {
		if it != ItemNone {
			n++
		}
	}
	return n
}
