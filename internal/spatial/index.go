package spatial

import (
	"slices"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/l1jgo/factory/internal/world"
)

// BuildingIndex keeps a Tree in step with the live buildings of the
// current generation. Every occupied cell of a building is inserted, so a
// query can see multi-cell buildings from any of their cells.
type BuildingIndex struct {
	tree  *Tree
	dirty bool
	built uint64 // generation tick the tree was built from
	buf   []ecs.ID
}

func NewBuildingIndex(extent int32) *BuildingIndex {
	return &BuildingIndex{tree: NewTree(extent), dirty: true}
}

func (x *BuildingIndex) Tree() *Tree { return x.tree }

// Invalidate forces a rebuild before the next query.
func (x *BuildingIndex) Invalidate() { x.dirty = true }

func (x *BuildingIndex) Dirty() bool { return x.dirty }

// Built returns the tick of the generation the tree was last built from.
func (x *BuildingIndex) Built() uint64 { return x.built }

// Rebuild resets the tree and inserts every live building of s.
func (x *BuildingIndex) Rebuild(s *world.State) {
	x.tree.Reset()
	s.EachBuilding(func(id ecs.ID, b *world.Building) {
		if b.Deleted() {
			return
		}
		for dy := int32(0); dy < int32(b.Size.H); dy++ {
			for dx := int32(0); dx < int32(b.Size.W); dx++ {
				x.tree.Insert(b.Pos.X+dx, b.Pos.Y+dy, id)
			}
		}
	})
	x.dirty = false
	x.built = s.Tick
}

// Query returns the ids of the live buildings with at least one cell in
// box, each once, in ascending order. The tree is rebuilt first if it is
// out of date.
func (x *BuildingIndex) Query(s *world.State, box AABB) []ecs.ID {
	if x.dirty {
		x.Rebuild(s)
	}
	x.buf = x.tree.QueryInto(x.buf[:0], box)
	out := slices.Clone(x.buf)
	slices.Sort(out)
	return slices.Compact(out)
}
