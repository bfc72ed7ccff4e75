package spatial

import (
	"fmt"
	"io"
	"strings"

	"github.com/l1jgo/factory/internal/core/ecs"
)

// DefaultExtent is the half width of the root node: the tree covers
// [-65536, 65536) on both axes.
const DefaultExtent = 1 << 16

// chunkSize is the number of ids stored per leaf chunk.
const chunkSize = 8

// nilHandle marks a missing child or chunk.
const nilHandle = -1

// AABB is an axis-aligned box. Min is inclusive, Max exclusive.
type AABB struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

// Cell returns the box covering the single cell (x, y).
func Cell(x, y int32) AABB {
	return AABB{MinX: x, MinY: y, MaxX: x + 1, MaxY: y + 1}
}

// Contains reports whether the cell (x, y) lies inside the box.
func (a AABB) Contains(x, y int32) bool {
	return a.MinX <= x && x < a.MaxX && a.MinY <= y && y < a.MaxY
}

// Overlaps is the closed-interval intersection test on both axes. It is
// conservative: boxes that only touch along an edge overlap.
func (a AABB) Overlaps(b AABB) bool {
	return a.MinX <= b.MaxX && b.MinX <= a.MaxX &&
		a.MinY <= b.MaxY && b.MinY <= a.MaxY
}

func (a AABB) String() string {
	return fmt.Sprintf("(%d,%d) (%d,%d)", a.MinX, a.MinY, a.MaxX, a.MaxY)
}

type node struct {
	bounds   AABB
	children [4]int32
	head     int32 // first item chunk, leaves only
	tail     int32
	count    int32
}

type chunk struct {
	items [chunkSize]ecs.ID
	n     uint8
	next  int32
}

// Tree is a region quad tree over grid cells. Nodes and leaf item chunks
// come from two bump arenas that are rewound in bulk by Reset; nothing is
// freed individually. Nodes reference each other by arena handle.
// Accessed only from the simulation goroutine, no locks.
type Tree struct {
	extent int32
	nodes  []node
	chunks []chunk
	items  int
}

// NewTree creates a tree whose root spans [-extent, extent)². extent must
// be a power of two.
func NewTree(extent int32) *Tree {
	if extent <= 0 || extent&(extent-1) != 0 {
		panic(fmt.Sprintf("spatial: extent %d is not a positive power of two", extent))
	}
	t := &Tree{
		extent: extent,
		nodes:  make([]node, 0, 1024),
		chunks: make([]chunk, 0, 256),
	}
	t.Reset()
	return t
}

// Reset drops every node and item and creates a fresh root.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
	t.chunks = t.chunks[:0]
	t.items = 0
	t.newNode(AABB{MinX: -t.extent, MinY: -t.extent, MaxX: t.extent, MaxY: t.extent})
}

// Bounds returns the root box.
func (t *Tree) Bounds() AABB { return t.nodes[0].bounds }

func (t *Tree) newNode(b AABB) int32 {
	t.nodes = append(t.nodes, node{
		bounds:   b,
		children: [4]int32{nilHandle, nilHandle, nilHandle, nilHandle},
		head:     nilHandle,
		tail:     nilHandle,
	})
	return int32(len(t.nodes) - 1)
}

func (t *Tree) newChunk() int32 {
	t.chunks = append(t.chunks, chunk{next: nilHandle})
	return int32(len(t.chunks) - 1)
}

// Insert records id at the cell pos. Inserting outside the root bounds is
// an indexing bug and panics.
func (t *Tree) Insert(x, y int32, id ecs.ID) {
	if !t.nodes[0].bounds.Contains(x, y) {
		panic(fmt.Sprintf("spatial: insert (%d,%d) outside root %v", x, y, t.nodes[0].bounds))
	}

	cur := int32(0)
	for {
		b := t.nodes[cur].bounds
		w := b.MaxX - b.MinX
		h := b.MaxY - b.MinY
		if w == 1 || h == 1 {
			t.appendItem(cur, id)
			return
		}

		row := (y - b.MinY) / (h / 2)
		col := (x - b.MinX) / (w / 2)
		idx := row*2 + col

		child := t.nodes[cur].children[idx]
		if child == nilHandle {
			minX := b.MinX + col*(w/2)
			minY := b.MinY + row*(h/2)
			child = t.newNode(AABB{MinX: minX, MinY: minY, MaxX: minX + w/2, MaxY: minY + h/2})
			t.nodes[cur].children[idx] = child
		}
		cur = child
	}
}

func (t *Tree) appendItem(leaf int32, id ecs.ID) {
	n := &t.nodes[leaf]
	if n.tail == nilHandle || t.chunks[n.tail].n == chunkSize {
		c := t.newChunk()
		// chunks live in their own arena, so n stays valid.
		if n.tail == nilHandle {
			n.head = c
		} else {
			t.chunks[n.tail].next = c
		}
		n.tail = c
	}
	c := &t.chunks[n.tail]
	c.items[c.n] = id
	c.n++
	n.count++
	t.items++
}

// Query returns every id inserted at a cell inside box.
func (t *Tree) Query(box AABB) []ecs.ID {
	return t.QueryInto(nil, box)
}

// QueryInto appends the ids inserted at cells inside box to dst.
func (t *Tree) QueryInto(dst []ecs.ID, box AABB) []ecs.ID {
	return t.query(0, box, dst)
}

func (t *Tree) query(idx int32, box AABB, dst []ecs.ID) []ecs.ID {
	n := &t.nodes[idx]
	if n.head != nilHandle && box.Contains(n.bounds.MinX, n.bounds.MinY) {
		for c := n.head; c != nilHandle; c = t.chunks[c].next {
			ch := &t.chunks[c]
			dst = append(dst, ch.items[:ch.n]...)
		}
	}
	for _, child := range n.children {
		if child != nilHandle && t.nodes[child].bounds.Overlaps(box) {
			dst = t.query(child, box, dst)
		}
	}
	return dst
}

// Stats reports arena usage.
type Stats struct {
	Nodes  int
	Chunks int
	Items  int
}

func (t *Tree) Stats() Stats {
	return Stats{Nodes: len(t.nodes), Chunks: len(t.chunks), Items: t.items}
}

// Dump writes an indented outline of the tree, one node per line.
func (t *Tree) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "*** quad tree ***"); err != nil {
		return err
	}
	return t.dump(w, 0, 0)
}

func (t *Tree) dump(w io.Writer, idx int32, indent int) error {
	n := &t.nodes[idx]
	pad := strings.Repeat(" ", indent)
	line := fmt.Sprintf("%sn %v", pad, n.bounds)
	if n.count > 0 {
		line += fmt.Sprintf(" items=%d", n.count)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range n.children {
		if child == nilHandle {
			if _, err := fmt.Fprintf(w, "%s  -\n", pad); err != nil {
				return err
			}
			continue
		}
		if err := t.dump(w, child, indent+2); err != nil {
			return err
		}
	}
	return nil
}
