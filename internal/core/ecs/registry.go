package ecs

// RemapTable maps the ids of one generation to the ids of the next.
// Dropped rows map to zero. The table is caller-owned scratch and is
// rewritten for every id of the old generation on each pass, so entries
// from an earlier generation never leak into a lookup.
type RemapTable struct {
	next []ID
}

func NewRemapTable(capacity int) *RemapTable {
	return &RemapTable{
		next: make([]ID, 0, min(max(capacity, 1), 1024)),
	}
}

// Reset sizes the table for an old generation of n slots (sentinel
// included). Slot 0 always maps to 0.
func (t *RemapTable) Reset(n int) {
	if n < 1 {
		n = 1
	}
	if cap(t.next) < n {
		t.next = make([]ID, n, n+n/4)
	}
	t.next = t.next[:n]
	t.next[0] = 0
}

func (t *RemapTable) Set(old, next ID) {
	t.next[old] = next
}

// Lookup returns the new id for old, or 0 when old was dropped or lies
// outside the last generation.
func (t *RemapTable) Lookup(old ID) ID {
	if int(old) >= len(t.next) {
		return 0
	}
	return t.next[old]
}

// Len is the size of the generation the table was last built for.
func (t *RemapTable) Len() int { return len(t.next) }

// CompactInto copies every row of src that dead rejects into dst, in
// ascending id order, and records old→new ids in table. dst is reset
// first. Returns how many rows were dropped.
func CompactInto[T any](dst, src *Column[T], table *RemapTable, dead func(*T) bool) int {
	dst.Reset()
	table.Reset(src.Len())
	removed := 0
	for i := 1; i < src.Len(); i++ {
		row := &src.data[i]
		if dead(row) {
			table.Set(ID(i), 0)
			removed++
			continue
		}
		table.Set(ID(i), dst.Append(*row))
	}
	return removed
}
