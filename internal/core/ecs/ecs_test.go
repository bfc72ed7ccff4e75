package ecs_test

import (
	"testing"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	val  int
	dead bool
}

func isDead(r *row) bool { return r.dead }

func TestColumnSentinel(t *testing.T) {
	c := ecs.NewColumn[row](8)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.Live())
	assert.Nil(t, c.Get(0))
	assert.False(t, c.Valid(0))

	id := c.Append(row{val: 7})
	assert.Equal(t, ecs.ID(1), id)
	require.NotNil(t, c.Get(id))
	assert.Equal(t, 7, c.Get(id).val)
	assert.Nil(t, c.Get(2))
}

func TestColumnCapacity(t *testing.T) {
	c := ecs.NewColumn[row](3)

	assert.Equal(t, ecs.ID(1), c.Append(row{val: 1}))
	assert.Equal(t, ecs.ID(2), c.Append(row{val: 2}))
	assert.True(t, c.Full())
	assert.Equal(t, ecs.ID(0), c.Append(row{val: 3}))
	assert.Equal(t, 2, c.Live())
}

func TestColumnGrowsPastInitialAllocation(t *testing.T) {
	c := ecs.NewColumn[row](5000)
	for i := 1; i < 5000; i++ {
		require.Equal(t, ecs.ID(i), c.Append(row{val: i}))
	}
	assert.True(t, c.Full())
	assert.Equal(t, 4999, c.Get(4999).val)
}

func TestColumnReset(t *testing.T) {
	c := ecs.NewColumn[row](8)
	c.Append(row{val: 1})
	c.Append(row{val: 2})

	c.Reset()
	assert.Equal(t, 0, c.Live())
	assert.Empty(t, c.Rows())
	assert.Equal(t, ecs.ID(1), c.Append(row{val: 3}))
	assert.Equal(t, 3, c.Get(1).val)
}

func TestColumnEachAndRows(t *testing.T) {
	c := ecs.NewColumn[row](8)
	for i := 1; i <= 3; i++ {
		c.Append(row{val: i * 10})
	}

	var ids []ecs.ID
	c.Each(func(id ecs.ID, r *row) {
		ids = append(ids, id)
		assert.Equal(t, int(id)*10, r.val)
	})
	assert.Equal(t, []ecs.ID{1, 2, 3}, ids)

	rows := c.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, 10, rows[0].val)
}

func TestCompactInto(t *testing.T) {
	src := ecs.NewColumn[row](8)
	dst := ecs.NewColumn[row](8)
	table := ecs.NewRemapTable(8)

	for i := 1; i <= 5; i++ {
		src.Append(row{val: i, dead: i == 2 || i == 4})
	}

	removed := ecs.CompactInto(dst, src, table, isDead)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 3, dst.Live())

	assert.Equal(t, ecs.ID(0), table.Lookup(0))
	assert.Equal(t, ecs.ID(1), table.Lookup(1))
	assert.Equal(t, ecs.ID(0), table.Lookup(2))
	assert.Equal(t, ecs.ID(2), table.Lookup(3))
	assert.Equal(t, ecs.ID(0), table.Lookup(4))
	assert.Equal(t, ecs.ID(3), table.Lookup(5))
	assert.Equal(t, ecs.ID(0), table.Lookup(6), "ids past the generation resolve to zero")

	// relative order is preserved
	assert.Equal(t, []int{1, 3, 5}, []int{dst.Get(1).val, dst.Get(2).val, dst.Get(3).val})
	// source is untouched
	assert.Equal(t, 5, src.Live())
}

func TestRemapTableOverwritesPreviousPass(t *testing.T) {
	table := ecs.NewRemapTable(4)
	src := ecs.NewColumn[row](8)
	dst := ecs.NewColumn[row](8)

	for i := 0; i < 4; i++ {
		src.Append(row{val: i})
	}
	ecs.CompactInto(dst, src, table, isDead)
	assert.Equal(t, ecs.ID(4), table.Lookup(4))

	// second pass over a smaller generation: every entry is rewritten
	src.Reset()
	src.Append(row{dead: true})
	src.Append(row{val: 9})
	ecs.CompactInto(dst, src, table, isDead)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, ecs.ID(0), table.Lookup(1))
	assert.Equal(t, ecs.ID(1), table.Lookup(2))
	assert.Equal(t, ecs.ID(0), table.Lookup(4))
}

func TestParseKind(t *testing.T) {
	for _, k := range []ecs.Kind{ecs.KindMiner, ecs.KindFactory, ecs.KindBelt} {
		got, ok := ecs.ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ecs.ParseKind("silo")
	assert.False(t, ok)
	assert.Equal(t, "kind(7)", ecs.Kind(7).String())
}
