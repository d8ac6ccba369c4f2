package wm

import (
	"fmt"
	"time"

	"github.com/poolpOrg/fion/backend"
)

// screenIndex returns root's zero-based position in registration order.
func (e *Engine) screenIndex(root backend.WindowID) int {
	for i, h := range e.screenOrder {
		if h == root {
			return i
		}
	}
	return -1
}

// workspaceIndex returns ws's zero-based position within workarea's
// children, in object-id order.
func (e *Engine) workspaceIndex(workarea, ws *Node) int {
	i := 0
	it := workarea.Children.Iter()
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		if n.ObjID == ws.ObjID {
			return i
		}
		i++
	}
	return -1
}

// statusText builds the one-line status string for a screen: a
// ctime-style timestamp, its registration-order index, its active
// workspace's object-id-order index, and the active tile's object id
// in hex.
func (e *Engine) statusText(root backend.WindowID) string {
	now := time.Now().Format("Mon Jan _2 15:04:05 2006")
	workarea := e.currWorkArea.XGet(uint64(root))
	ws := e.currWorkspace.XGet(uint64(root))
	tile := e.currTile.XGet(uint64(root))

	return fmt.Sprintf(" %s | screen: %d | workspace: %d | active tile: %#x",
		now,
		e.screenIndex(root),
		e.workspaceIndex(workarea, ws),
		tile.ObjID,
	)
}

// RefreshStatus recomputes and redraws the status bar text for every
// registered screen, then flushes the backend. Called once per
// event-loop tick regardless of whether anything else happened, so the
// clock in the status bar keeps moving even when the window manager is
// otherwise idle.
//
// DrawText is spec §7's one named "Transient backend" call (the
// open_font/create_gc/image_text class): a failure there is logged and
// skipped for this tick rather than propagated, since it never corrupts
// the model — only the status bar's on-screen text lags by one tick.
func (e *Engine) RefreshStatus() error {
	it := e.screens.Iter()
	for {
		root, _, ok := it.Next()
		if !ok {
			break
		}
		status, ok := e.statusOf.Get(root)
		if !ok {
			continue
		}
		text := e.statusText(backend.WindowID(root))
		if err := e.bk.DrawText(status.Handle, 0, backend.StatusTextBaseline, backend.StatusFont,
			backend.ColourClientBorder, backend.ColourStatusBackground, text); err != nil {
			e.log.Warnf("draw_text failed on screen %d: %v", root, err)
			continue
		}
	}
	return e.bk.Flush()
}
