package wm

import "github.com/poolpOrg/fion/internal/treeindex"

// InvariantViolation is re-exported so callers outside this module
// never need to import internal/treeindex directly to recover() and
// report one. Every Engine operation that reaches an XGet/XSet/XPop on
// an index the engine itself maintains treats a miss as a bug: the
// panic is expected to propagate all the way out of the event loop and
// abort the process with a diagnostic, never be handled locally.
type InvariantViolation = treeindex.InvariantViolation

// Every non-nil error an Engine method returns (other than
// RefreshStatus's internally-logged DrawText failures, see status.go)
// originates from a backend.Display call that failed. The router
// treats those the same way: log the offending operation and exit
// non-zero. There is no other "transient" category here — by the time
// a geometry/map/reparent call fails inside the engine, the in-memory
// tree and the display server have already diverged, and continuing
// would only make that worse. DrawText is the one spec §7 names
// "Transient backend" (the open_font/create_gc/image_text class): it
// never mutates the tree, so RefreshStatus logs and skips it instead of
// returning it. Recoverable, expected situations (the last workspace on
// a WorkArea, the only tile in a workspace) are represented as a nil error
// and no state change, not as a distinguished error value.
