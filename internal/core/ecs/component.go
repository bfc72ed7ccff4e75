package ecs

// Column is a dense array-of-structs store for one entity kind.
// Slot 0 is reserved so that a zero ID never refers to a real row.
// Pure generics, no reflect.
type Column[T any] struct {
	data  []T
	limit int
}

// NewColumn returns a column that holds at most limit rows, sentinel
// included. Storage grows on demand up to that limit.
func NewColumn[T any](limit int) *Column[T] {
	if limit < 1 {
		limit = 1
	}
	return &Column[T]{
		data:  make([]T, 1, min(limit, 1024)),
		limit: limit,
	}
}

// Append stores v in the next free slot and returns its ID, or 0 when the
// column is full.
func (c *Column[T]) Append(v T) ID {
	if c.Full() {
		return 0
	}
	c.data = append(c.data, v)
	return ID(len(c.data) - 1)
}

// Get returns the row for id, or nil for the sentinel and out-of-range ids.
func (c *Column[T]) Get(id ID) *T {
	if id == 0 || int(id) >= len(c.data) {
		return nil
	}
	return &c.data[id]
}

// Valid reports whether id addresses an allocated row.
func (c *Column[T]) Valid(id ID) bool {
	return id != 0 && int(id) < len(c.data)
}

// Len returns the number of slots in use, sentinel included. Valid ids
// are in [1, Len()).
func (c *Column[T]) Len() int { return len(c.data) }

// Live returns the number of rows excluding the sentinel.
func (c *Column[T]) Live() int { return len(c.data) - 1 }

func (c *Column[T]) Limit() int { return c.limit }

func (c *Column[T]) Full() bool { return len(c.data) >= c.limit }

// Reset drops every row but keeps the backing storage.
func (c *Column[T]) Reset() {
	clear(c.data)
	c.data = c.data[:1]
}

// Each calls fn for every row in ascending id order.
func (c *Column[T]) Each(fn func(ID, *T)) {
	for i := 1; i < len(c.data); i++ {
		fn(ID(i), &c.data[i])
	}
}

// Rows exposes the rows after the sentinel; rows[i] has ID i+1.
func (c *Column[T]) Rows() []T { return c.data[1:] }
