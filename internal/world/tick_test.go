package world_test

import (
	"testing"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/l1jgo/factory/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinerPeriodAndItemCycle(t *testing.T) {
	s := newState(t)
	mID := s.SpawnMiner(at(1, 1))
	bID := s.SpawnBelt(at(3, 1))
	require.True(t, s.Connect(mID, bID))
	m := s.Miner(s.Building(mID).Data)
	belt := s.Belt(s.Building(bID).Data)

	var items []world.Item
	var ticks []int
	for tick := 1; tick <= 41*5; tick++ {
		s.UpdateMiner(m)
		if belt.Items[0] != world.ItemNone {
			items = append(items, belt.Items[0])
			ticks = append(ticks, tick)
			belt.Items[0] = world.ItemNone
		}
	}

	assert.Equal(t, []world.Item{1, 2, 3, 4, 1}, items)
	assert.Equal(t, []int{41, 82, 123, 164, 205}, ticks)
	assert.Equal(t, 5, s.Stats.Mined)
}

func TestMinerBlocksUntilOutputAccepts(t *testing.T) {
	s := newState(t)
	mID := s.SpawnMiner(at(1, 1))
	bID := s.SpawnBelt(at(3, 1))
	require.True(t, s.Connect(mID, bID))
	m := s.Miner(s.Building(mID).Data)
	belt := s.Belt(s.Building(bID).Data)
	belt.Items[0] = 7

	for i := 0; i < 200; i++ {
		s.UpdateMiner(m)
	}
	assert.Equal(t, world.MinerUnloading, m.State)
	assert.Equal(t, uint8(0), m.NextItem, "no item is skipped while blocked")
	assert.Equal(t, world.Item(7), belt.Items[0])

	belt.Items[0] = world.ItemNone
	s.UpdateMiner(m)
	assert.Equal(t, world.MinerMining, m.State)
	assert.Equal(t, world.Item(1), belt.Items[0])
}

func TestMinerWithoutOutputStaysUnloading(t *testing.T) {
	s := newState(t)
	m := s.Miner(s.Building(s.SpawnMiner(at(0, 0))).Data)
	for i := 0; i < 100; i++ {
		s.UpdateMiner(m)
	}
	assert.Equal(t, world.MinerUnloading, m.State)
	assert.Zero(t, s.Stats.Mined)
}

func TestFactoryCycle(t *testing.T) {
	s := newState(t)
	fID := s.SpawnFactory(at(5, 1))
	f := s.Factory(s.Building(fID).Data)
	in := ecs.Ref{Kind: ecs.KindFactory, Index: s.Building(fID).Data}

	for i := 0; i < 3; i++ {
		require.True(t, s.TryPutItem(in, world.Item(i+1)))
	}
	for i := 0; i < 50; i++ {
		s.UpdateFactory(f)
		require.Equal(t, world.FactoryWaiting, f.State, "three inputs never start a batch")
	}

	require.True(t, s.TryPutItem(in, 4))
	s.UpdateFactory(f)
	require.Equal(t, world.FactoryProducing, f.State)
	assert.Equal(t, [world.FactorySlots]world.Item{}, f.Items, "inputs are consumed on start")
	assert.Equal(t, 1, s.Stats.Started)

	for i := 1; i < 120; i++ {
		s.UpdateFactory(f)
		require.Equal(t, world.FactoryProducing, f.State, "update %d", i)
	}
	s.UpdateFactory(f)
	require.Equal(t, world.FactoryUnloading, f.State)

	// nowhere to put the output yet
	s.UpdateFactory(f)
	assert.Equal(t, world.FactoryUnloading, f.State)

	bID := s.SpawnBelt(at(7, 1))
	require.True(t, s.Connect(fID, bID))
	s.UpdateFactory(f)
	assert.Equal(t, world.FactoryWaiting, f.State)
	assert.Equal(t, world.Item(9), s.Belt(s.Building(bID).Data).Items[0])
	assert.Equal(t, 1, s.Stats.Produced)
}

func TestFactoryAcceptsInputsWhileProducing(t *testing.T) {
	s := newState(t)
	fID := s.SpawnFactory(at(0, 0))
	f := s.Factory(s.Building(fID).Data)
	in := ecs.Ref{Kind: ecs.KindFactory, Index: s.Building(fID).Data}

	for i := 0; i < world.FactorySlots; i++ {
		s.TryPutItem(in, 1)
	}
	s.UpdateFactory(f)
	require.Equal(t, world.FactoryProducing, f.State)

	assert.True(t, s.TryPutItem(in, 2))
	assert.Equal(t, world.Item(2), f.Items[0])
}

func TestBeltMovesOneSlotPerPeriod(t *testing.T) {
	s := newState(t)
	b := s.Belt(s.Building(s.SpawnBelt(at(0, 0))).Data)
	b.Items[0] = 5

	for i := 0; i < 9; i++ {
		s.UpdateBelt(b)
	}
	assert.Equal(t, world.Item(5), b.Items[0])
	assert.Equal(t, uint8(9), b.Works[0])

	s.UpdateBelt(b)
	assert.Equal(t, world.ItemNone, b.Items[0])
	assert.Equal(t, world.Item(5), b.Items[1])
	assert.Equal(t, uint8(0), b.Works[1])

	for i := 0; i < 100; i++ {
		s.UpdateBelt(b)
	}
	assert.Equal(t, world.Item(5), b.Items[3], "no output: the item waits at the end")
	assert.Equal(t, uint8(10), b.Works[3])
	assert.Equal(t, 1, b.Count())
}

func TestBeltHandoff(t *testing.T) {
	s := newState(t)
	first := s.SpawnBelt(at(0, 0))
	second := s.SpawnBelt(at(1, 0))
	require.True(t, s.Connect(first, second))
	a := s.Belt(s.Building(first).Data)
	b := s.Belt(s.Building(second).Data)
	a.Items[0] = 2

	for i := 0; i < 39; i++ {
		s.UpdateBelt(a)
	}
	require.Equal(t, world.Item(2), a.Items[3])

	s.UpdateBelt(a)
	assert.Equal(t, 0, a.Count())
	assert.Equal(t, world.Item(2), b.Items[0])
	assert.Equal(t, 1, s.Stats.Handoffs)
}

func TestBeltBackpressure(t *testing.T) {
	s := newState(t)
	first := s.SpawnBelt(at(0, 0))
	second := s.SpawnBelt(at(1, 0))
	require.True(t, s.Connect(first, second))
	a := s.Belt(s.Building(first).Data)
	b := s.Belt(s.Building(second).Data)
	b.Items[0] = 9
	b.Works[0] = 3
	in := ecs.Ref{Kind: ecs.KindBelt, Index: s.Building(first).Data}

	// feed the first belt whenever its intake is free; the second never moves
	fed := 0
	for i := 0; i < 500; i++ {
		if s.TryPutItem(in, 1) {
			fed++
		}
		s.UpdateBelt(a)
	}

	assert.Equal(t, world.BeltSlots, fed)
	assert.Equal(t, world.BeltSlots, a.Count(), "items are held, never dropped")
	assert.Equal(t, world.Item(9), b.Items[0])
	assert.Zero(t, s.Stats.Handoffs)
}

func TestSimulateConservesItems(t *testing.T) {
	s := newState(t)
	ids := make([]ecs.ID, 6)
	for i := range ids {
		ids[i] = s.SpawnBelt(at(int32(i), 0))
		if i > 0 {
			require.True(t, s.Connect(ids[i-1], ids[i]))
		}
	}
	in := ecs.Ref{Kind: ecs.KindBelt, Index: s.Building(ids[0]).Data}

	count := func() int {
		n := 0
		for _, row := range s.Belts.Rows() {
			n += row.Count()
		}
		return n
	}

	fed := 0
	for tick := 0; tick < 1000; tick++ {
		if tick%7 == 0 && s.TryPutItem(in, world.Item(1+tick%4)) {
			fed++
		}
		s.Simulate()
		require.Equal(t, fed, count(), "tick %d", tick)
	}
	assert.Equal(t, len(ids)*world.BeltSlots, count(), "the line fills up and stalls")
}

func TestSimulateSkipsFlaggedEntities(t *testing.T) {
	s := newState(t)
	mID := s.SpawnMiner(at(0, 0))
	m := s.Miner(s.Building(mID).Data)
	require.True(t, s.Delete(mID))

	s.Simulate()
	assert.Zero(t, m.Work)
}
