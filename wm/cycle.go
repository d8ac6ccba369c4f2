package wm

import "github.com/poolpOrg/fion/backend"

// sameWorkspace reports whether a and b sit under the same Workspace
// ancestor. Spec §4.5.4: tile cycling "filters by membership in the
// current workspace (via find_ancestor)" — a screen can host several
// workspaces' worth of tiles, only one of which is currently mapped.
func (e *Engine) sameWorkspace(a, b *Node) bool {
	aws, ok := e.ancestor(a, backend.KindWorkspace)
	if !ok {
		return false
	}
	bws, ok := e.ancestor(b, backend.KindWorkspace)
	if !ok {
		return false
	}
	return aws.ObjID == bws.ObjID
}

// findTileNext returns the tile that follows t in tilesByID order,
// restricted to t's own workspace, wrapping around to the first tile
// in that workspace. If t is the only tile in its workspace, it
// returns t itself — callers use that as the "nothing to cycle to"
// signal. Grounded on layout.c's find_tile_next.
func (e *Engine) findTileNext(t *Node) *Node {
	it := e.tilesByID.IterFrom(t.ObjID + 1)
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		if e.sameWorkspace(n, t) {
			return n
		}
	}
	it = e.tilesByID.Iter()
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		if e.sameWorkspace(n, t) {
			return n
		}
	}
	return t
}

// findTilePrev returns the tile that precedes t in tilesByID order,
// restricted to t's own workspace, wrapping around to the last tile in
// that workspace. Grounded on layout.c's find_tile_prev, which walks
// forward keeping a `last` pointer initialised to the starting tile so
// "no previous" degenerates into a safe no-op instead of undefined
// behaviour on an uninitialised pointer.
func (e *Engine) findTilePrev(t *Node) *Node {
	last := t
	it := e.tilesByID.Iter()
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		if n.ObjID == t.ObjID {
			break
		}
		if e.sameWorkspace(n, t) {
			last = n
		}
	}
	if last != t {
		return last
	}
	it = e.tilesByID.IterFrom(t.ObjID + 1)
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		if e.sameWorkspace(n, t) {
			last = n
		}
	}
	return last
}

// TileNext makes the next tile (in object-id order, wrapping) on root
// the active tile, among the tiles of the current workspace. A
// single-tile workspace is a no-op.
func (e *Engine) TileNext(root backend.WindowID) error {
	t := e.currTile.XGet(uint64(root))
	next := e.findTileNext(t)
	if next == t {
		return nil
	}
	return e.tileSetActiveNode(root, next)
}

// TilePrev makes the previous tile (in object-id order, wrapping) on
// root the active tile, among the tiles of the current workspace. A
// single-tile workspace is a no-op.
func (e *Engine) TilePrev(root backend.WindowID) error {
	t := e.currTile.XGet(uint64(root))
	prev := e.findTilePrev(t)
	if prev == t {
		return nil
	}
	return e.tileSetActiveNode(root, prev)
}

// findWorkspaceNext returns the workspace after ws within the same
// WorkArea, in child (object-id) order, wrapping around. If ws is the
// only workspace, it returns ws itself.
func (e *Engine) findWorkspaceNext(workarea, ws *Node) *Node {
	it := workarea.Children.IterFrom(ws.ObjID + 1)
	if _, n, ok := it.Next(); ok {
		return n
	}
	_, n, _ := workarea.Children.Root()
	return n
}

// findWorkspacePrev returns the workspace before ws within the same
// WorkArea, in child (object-id) order, wrapping around.
func (e *Engine) findWorkspacePrev(workarea, ws *Node) *Node {
	var last *Node
	it := workarea.Children.Iter()
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		if n.ObjID == ws.ObjID {
			break
		}
		last = n
	}
	if last != nil {
		return last
	}
	it = workarea.Children.Iter()
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		last = n
	}
	return last
}

// switchWorkspace unmaps the currently visible workspace on root (if
// any) and maps the new one, then records it as current. It also
// restores root's currTile to ws's own remembered active tile (spec
// §3's "current_tile[workspace]"), so tile commands issued right after
// a workspace switch act on the tile the user is actually looking at,
// not a leftover pointer into the workspace just hidden. If ws has no
// remembered tile yet (it was only just created), the caller is
// expected to establish one itself via tileSetActiveNode.
func (e *Engine) switchWorkspace(root backend.WindowID, ws *Node) error {
	key := uint64(root)
	if old, ok := e.currWorkspace.Get(key); ok {
		if old.ObjID == ws.ObjID {
			return nil
		}
		if err := e.bk.Unmap(old.Handle); err != nil {
			return err
		}
	}
	e.currWorkspace.Set(key, ws)
	if err := e.mapSubtree(ws); err != nil {
		return err
	}
	if tile, ok := e.tileOfWorkspace.Get(ws.ObjID); ok {
		if err := e.tileSetActiveNode(root, tile); err != nil {
			return err
		}
	}
	return e.bk.Flush()
}

// WorkspaceNext switches root to the next workspace (in object-id
// order, wrapping) on its WorkArea. A single-workspace WorkArea is a
// no-op.
func (e *Engine) WorkspaceNext(root backend.WindowID) error {
	workarea := e.currWorkArea.XGet(uint64(root))
	ws := e.currWorkspace.XGet(uint64(root))
	next := e.findWorkspaceNext(workarea, ws)
	if next.ObjID == ws.ObjID {
		return nil
	}
	return e.switchWorkspace(root, next)
}

// WorkspacePrev switches root to the previous workspace (in object-id
// order, wrapping) on its WorkArea. A single-workspace WorkArea is a
// no-op.
func (e *Engine) WorkspacePrev(root backend.WindowID) error {
	workarea := e.currWorkArea.XGet(uint64(root))
	ws := e.currWorkspace.XGet(uint64(root))
	prev := e.findWorkspacePrev(workarea, ws)
	if prev.ObjID == ws.ObjID {
		return nil
	}
	return e.switchWorkspace(root, prev)
}

// WorkspaceCreate adds a new, empty workspace to root's WorkArea (with
// its own initial TileFork+Tile) and switches to it immediately.
func (e *Engine) WorkspaceCreate(root backend.WindowID) error {
	workarea := e.currWorkArea.XGet(uint64(root))
	ws, err := e.createWorkspaceNode(workarea)
	if err != nil {
		return err
	}
	tile, err := e.prepareWorkspaceTiles(ws)
	if err != nil {
		return err
	}
	if err := e.switchWorkspace(root, ws); err != nil {
		return err
	}
	return e.tileSetActiveNode(root, tile)
}

// WorkspaceDestroy removes the active workspace on root. Destroying the
// last remaining workspace on a WorkArea is rejected silently — a
// WorkArea always keeps at least one workspace. Per spec §4.5, the new
// current is whichever workspace the work area's children index reports
// as its root (least object id) after removal, not "the next one in
// cyclic order" — those differ whenever the destroyed workspace isn't
// itself the smallest-id child.
func (e *Engine) WorkspaceDestroy(root backend.WindowID) error {
	workarea := e.currWorkArea.XGet(uint64(root))
	ws := e.currWorkspace.XGet(uint64(root))
	if workarea.Children.Len() <= 1 {
		return nil
	}

	if err := e.bk.Unmap(ws.Handle); err != nil {
		return err
	}
	workarea.Children.XPop(ws.ObjID)
	e.windows.XPop(uint64(ws.Handle))
	e.tileOfWorkspace.Pop(ws.ObjID)
	e.purgeSubtreeIndices(ws)

	// ws is already unmapped and gone: record the new current directly
	// rather than going through switchWorkspace, which would otherwise
	// try to unmap the destroyed workspace a second time.
	_, next, _ := workarea.Children.Root()
	e.currWorkspace.Set(uint64(root), next)
	if err := e.mapSubtree(next); err != nil {
		return err
	}
	// Restore currTile to the surviving workspace's own remembered tile:
	// left pointing at the destroyed workspace's tile, it would dangle
	// (that subtree was just purged from every index) and the next tile
	// command would panic reaching through its parent.
	if tile, ok := e.tileOfWorkspace.Get(next.ObjID); ok {
		if err := e.tileSetActiveNode(root, tile); err != nil {
			return err
		}
	}
	return e.bk.Flush()
}

// purgeSubtreeIndices removes n's descendants from the windows and
// tilesByID indices (n itself is assumed already popped by the caller).
// It does not touch the backend: destroying a workspace never issues
// per-descendant unmap calls, since the whole subtree is already hidden
// once its root is unmapped.
func (e *Engine) purgeSubtreeIndices(n *Node) {
	it := n.Children.Iter()
	for {
		_, child, ok := it.Next()
		if !ok {
			break
		}
		e.windows.Pop(uint64(child.Handle))
		if child.Kind == backend.KindTile {
			e.tilesByID.Pop(child.ObjID)
		}
		e.purgeSubtreeIndices(child)
	}
}
