package wm

import "github.com/poolpOrg/fion/backend"

// TileDestroy removes the active tile on root, handing its space to its
// neighbour tile U and making U active. If T is the only tile in its
// workspace, this is a silent no-op — a workspace always keeps at least
// one tile. If removing T leaves its fork with a single remaining
// child, and that fork is not the workspace's own top-level fork, the
// fork collapses: U is reparented directly under the fork's former
// parent in the fork's place, and the now-empty fork is discarded.
func (e *Engine) TileDestroy(root backend.WindowID) error {
	key := uint64(root)
	t := e.currTile.XGet(key)
	u := e.findTileNext(t)
	if u == t {
		return nil
	}
	fork := e.parent(t)

	u.Geometry.X, u.Geometry.Y = 0, 0
	u.Geometry.Width = fork.InteriorWidth() - 2*u.Geometry.BorderWidth
	u.Geometry.Height = fork.InteriorHeight() - 2*u.Geometry.BorderWidth
	if err := e.pushGeometry(u); err != nil {
		return err
	}
	if err := e.resizeChildren(u); err != nil {
		return err
	}

	if err := e.bk.Unmap(t.Handle); err != nil {
		return err
	}
	fork.Children.XPop(t.ObjID)
	e.windows.XPop(uint64(t.Handle))
	e.tilesByID.XPop(t.ObjID)

	if fork.Children.Len() == 1 && !e.isWorkspaceTopFork(fork) {
		if err := e.collapseFork(fork, u); err != nil {
			return err
		}
	}

	return e.tileSetActiveNode(root, u)
}

// isWorkspaceTopFork reports whether fork is the single TileFork a
// Workspace holds directly — that one is never collapsed away.
func (e *Engine) isWorkspaceTopFork(fork *Node) bool {
	return e.parent(fork).Kind == backend.KindWorkspace
}

// collapseFork removes fork, which holds only the single child u, by
// reparenting u in fork's place under fork's own parent. u keeps the
// size it was just resized to (which already matches fork's interior);
// only its position and backend parent change.
func (e *Engine) collapseFork(fork, u *Node) error {
	grandparent := e.parent(fork)

	grandparent.Children.XPop(fork.ObjID)
	e.windows.XPop(uint64(fork.Handle))

	u.Geometry.X = fork.Geometry.X
	u.Geometry.Y = fork.Geometry.Y
	u.Parent = grandparent.Handle
	grandparent.Children.XSet(u.ObjID, u)

	if err := e.bk.Reparent(u.Handle, grandparent.Handle); err != nil {
		return err
	}
	if err := e.pushGeometry(u); err != nil {
		return err
	}
	return e.bk.Unmap(fork.Handle)
}
