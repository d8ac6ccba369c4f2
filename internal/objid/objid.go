// Package objid hands out monotonically increasing object identifiers.
//
// Ids are unique for the lifetime of the process and are never recycled,
// mirroring the file-scope `static uint64_t objid` counter in the
// original layout.c. Zero is reserved to mean "unset" and is never
// returned by Next.
package objid

// Allocator produces a strictly increasing sequence of object ids.
//
// The zero value is ready to use. An Allocator is only ever touched from
// the single event-loop goroutine, so it carries no locking.
type Allocator struct {
	last uint64
}

// Next returns a fresh id, greater than every id returned before it.
func (a *Allocator) Next() uint64 {
	a.last++
	return a.last
}
