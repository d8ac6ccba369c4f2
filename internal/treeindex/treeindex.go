// Package treeindex implements the ordered uint64-keyed index the layout
// engine uses for every children list and every secondary lookup table
// (windows, tiles by id, per-context "current" pointers).
//
// The original C sources (fion.h's `struct tree`, exercised throughout
// layout.c) leave the container free. A window manager's per-screen node
// count is small (tens of tiles, not millions), so Tree is a sorted key
// slice alongside a map, giving O(log n) lookup and O(n) insert/delete —
// cheap at this scale and simpler than a balanced tree.
package treeindex

import "sort"

// Tree is an ordered mapping from uint64 to V.
//
// The zero value is an empty, ready-to-use tree.
type Tree[V any] struct {
	keys []uint64
	vals map[uint64]V
}

// New returns an empty Tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{vals: make(map[uint64]V)}
}

func (t *Tree[V]) ensure() {
	if t.vals == nil {
		t.vals = make(map[uint64]V)
	}
}

func (t *Tree[V]) search(k uint64) (int, bool) {
	i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= k })
	if i < len(t.keys) && t.keys[i] == k {
		return i, true
	}
	return i, false
}

// Get returns the value at k, or ok=false if absent.
func (t *Tree[V]) Get(k uint64) (v V, ok bool) {
	v, ok = t.vals[k]
	return
}

// XGet returns the value at k. It panics if k is absent — callers use
// this only where the engine's own invariants guarantee presence (the
// `tree_xget` family in the original sources).
func (t *Tree[V]) XGet(k uint64) V {
	v, ok := t.vals[k]
	if !ok {
		panic(InvariantViolation{Op: "xget", Key: k})
	}
	return v
}

// Set inserts or overwrites the value at k.
func (t *Tree[V]) Set(k uint64, v V) {
	t.ensure()
	i, found := t.search(k)
	if found {
		t.vals[k] = v
		return
	}
	t.keys = append(t.keys, 0)
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = k
	t.vals[k] = v
}

// XSet inserts the value at k. It panics if k is already present.
func (t *Tree[V]) XSet(k uint64, v V) {
	if _, found := t.search(k); found {
		panic(InvariantViolation{Op: "xset", Key: k})
	}
	t.Set(k, v)
}

// Pop removes and returns the value at k, or ok=false if absent.
func (t *Tree[V]) Pop(k uint64) (v V, ok bool) {
	i, found := t.search(k)
	if !found {
		return
	}
	v = t.vals[k]
	ok = true
	delete(t.vals, k)
	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	return
}

// XPop removes and returns the value at k. It panics if k is absent.
func (t *Tree[V]) XPop(k uint64) V {
	v, ok := t.Pop(k)
	if !ok {
		panic(InvariantViolation{Op: "xpop", Key: k})
	}
	return v
}

// Root returns the first element in key order, non-destructively.
func (t *Tree[V]) Root() (k uint64, v V, ok bool) {
	if len(t.keys) == 0 {
		return
	}
	k = t.keys[0]
	v = t.vals[k]
	ok = true
	return
}

// Len returns the number of entries.
func (t *Tree[V]) Len() int {
	return len(t.keys)
}

// Iterator is a resumable in-order cursor over a Tree.
type Iterator[V any] struct {
	t   *Tree[V]
	idx int
}

// Iter starts a fresh in-order traversal from the head.
func (t *Tree[V]) Iter() *Iterator[V] {
	return &Iterator[V]{t: t}
}

// IterFrom starts a traversal at the least key >= start.
func (t *Tree[V]) IterFrom(start uint64) *Iterator[V] {
	i, _ := t.search(start)
	return &Iterator[V]{t: t, idx: i}
}

// Next advances the cursor and returns the element it lands on, or
// ok=false once the traversal is exhausted.
func (it *Iterator[V]) Next() (k uint64, v V, ok bool) {
	if it.idx >= len(it.t.keys) {
		return
	}
	k = it.t.keys[it.idx]
	v = it.t.vals[k]
	ok = true
	it.idx++
	return
}

// InvariantViolation reports a key an XGet/XPop demanded but did not
// find, or a key XSet found already present. This is treated as a bug, not a recoverable error:
// callers let it propagate as a panic and abort with a diagnostic,
// never recovering it locally.
type InvariantViolation struct {
	Op  string
	Key uint64
}

func (e InvariantViolation) Error() string {
	if e.Op == "xset" {
		return "treeindex: invariant violation: " + e.Op + " on present key"
	}
	return "treeindex: invariant violation: " + e.Op + " on absent key"
}
