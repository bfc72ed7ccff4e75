package spatial_test

import (
	"testing"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/l1jgo/factory/internal/spatial"
	"github.com/l1jgo/factory/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBuildingIndexQuery(t *testing.T) {
	s := world.NewState(world.DefaultOptions(), zaptest.NewLogger(t))
	factory := s.SpawnFactory(world.Coord{X: 0, Y: 0})
	belt := s.SpawnBelt(world.Coord{X: 2, Y: 0})
	miner := s.SpawnMiner(world.Coord{X: -10, Y: -10})

	idx := spatial.NewBuildingIndex(spatial.DefaultExtent)
	require.True(t, idx.Dirty())

	got := idx.Query(s, spatial.AABB{MinX: 0, MinY: 0, MaxX: 3, MaxY: 2})
	assert.Equal(t, []ecs.ID{factory, belt}, got, "the 2x2 factory is reported once")
	assert.False(t, idx.Dirty())
	assert.Equal(t, 4+1+2, idx.Tree().Stats().Items)

	assert.Equal(t, []ecs.ID{factory}, idx.Query(s, spatial.Cell(1, 1)))
	assert.Equal(t, []ecs.ID{miner}, idx.Query(s, spatial.Cell(-9, -10)), "any cell of the footprint finds it")
	assert.Empty(t, idx.Query(s, spatial.Cell(3, 0)))
}

func TestBuildingIndexSkipsDeleted(t *testing.T) {
	s := world.NewState(world.DefaultOptions(), zaptest.NewLogger(t))
	a := s.SpawnBelt(world.Coord{X: 0, Y: 0})
	b := s.SpawnBelt(world.Coord{X: 1, Y: 0})

	idx := spatial.NewBuildingIndex(64)
	box := spatial.AABB{MinX: 0, MinY: 0, MaxX: 2, MaxY: 1}
	require.Equal(t, []ecs.ID{a, b}, idx.Query(s, box))

	s.Delete(a)
	assert.Equal(t, []ecs.ID{a, b}, idx.Query(s, box), "stale until invalidated")
	idx.Invalidate()
	assert.Equal(t, []ecs.ID{b}, idx.Query(s, box))
}

func TestBuildingIndexResultIsCallerOwned(t *testing.T) {
	s := world.NewState(world.DefaultOptions(), zaptest.NewLogger(t))
	a := s.SpawnBelt(world.Coord{X: 0, Y: 0})
	b := s.SpawnBelt(world.Coord{X: 5, Y: 5})

	idx := spatial.NewBuildingIndex(64)
	first := idx.Query(s, spatial.Cell(0, 0))
	second := idx.Query(s, spatial.Cell(5, 5))
	assert.Equal(t, []ecs.ID{a}, first)
	assert.Equal(t, []ecs.ID{b}, second)
}
