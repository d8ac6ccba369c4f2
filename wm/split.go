package wm

import "github.com/poolpOrg/fion/backend"

// forkAround wraps tile in a freshly created TileFork, positioned and
// sized to exactly replace tile within its current parent, then
// reparents tile into it. It is used both to seed a workspace's very
// first TileFork and, from TileSplit, whenever the tile being split
// already shares its fork with a sibling.
func (e *Engine) forkAround(tile *Node) (*Node, error) {
	origParent := e.parent(tile)

	forkBorder := backend.KindTileFork.BorderWidth()
	geom := backend.Geometry{
		X: tile.Geometry.X,
		Y: tile.Geometry.Y,
		Width:       tile.Geometry.Width + (tile.Geometry.BorderWidth-forkBorder)*2,
		Height:      tile.Geometry.Height + (tile.Geometry.BorderWidth-forkBorder)*2,
		BorderWidth: forkBorder,
	}
	fork, err := e.newManagedNode(backend.KindTileFork, tile.Screen, origParent, geom, 0, 0)
	if err != nil {
		return nil, err
	}

	if err := e.reparentNode(tile, fork); err != nil {
		return nil, err
	}
	tile.Geometry.Width = fork.InteriorWidth() - 2*tile.Geometry.BorderWidth
	tile.Geometry.Height = fork.InteriorHeight() - 2*tile.Geometry.BorderWidth
	if err := e.pushGeometry(tile); err != nil {
		return nil, err
	}
	return fork, nil
}

// reparentNode moves n from its current parent to newParent, resetting
// its position to the new parent's origin.
func (e *Engine) reparentNode(n, newParent *Node) error {
	oldParent := e.parent(n)
	oldParent.Children.XPop(n.ObjID)
	n.Parent = newParent.Handle
	newParent.Children.XSet(n.ObjID, n)
	n.Geometry.X, n.Geometry.Y = 0, 0
	return e.bk.Reparent(n.Handle, newParent.Handle)
}

// newSiblingTile creates a bare Tile under fork; its final geometry is
// computed by the caller once the split direction is known.
func (e *Engine) newSiblingTile(fork *Node) (*Node, error) {
	border := backend.KindTile.BorderWidth()
	tile, err := e.newManagedNode(backend.KindTile, fork.Screen, fork, backend.Geometry{
		BorderWidth: border,
	}, backend.ColourTileBackground, backend.ColourTileFirstBorder)
	if err != nil {
		return nil, err
	}
	e.tilesByID.XSet(tile.ObjID, tile)
	return tile, nil
}

// TileSplit divides the active tile on root into two tiles along dir.
// If the tile's current fork already holds another child, a new
// intermediate fork is created to hold the split pair; otherwise the
// existing fork simply gains a second child. Odd remainders go to the
// newly created sibling, never to the original tile. Grounded on
// layout.c's tile_split/tile_resize/prepare_tile_fork.
func (e *Engine) TileSplit(root backend.WindowID, dir Direction) error {
	key := uint64(root)
	t := e.currTile.XGet(key)

	if err := e.bk.Unmap(t.Handle); err != nil {
		return err
	}

	p := e.parent(t)
	var fork *Node
	var err error
	if p.Children.Len() > 1 {
		fork, err = e.forkAround(t)
		if err != nil {
			return err
		}
	} else {
		fork = p
	}

	s, err := e.newSiblingTile(fork)
	if err != nil {
		return err
	}

	t.Geometry.X, t.Geometry.Y = 0, 0
	s.Geometry.X, s.Geometry.Y = 0, 0
	tb := t.Geometry.BorderWidth

	switch dir {
	case SplitHorizontal:
		full := fork.InteriorWidth()
		t.Geometry.Width = full - 2*tb
		s.Geometry.Width = t.Geometry.Width

		half := fork.InteriorHeight() / 2
		t.Geometry.Height = half - 2*tb
		s.Geometry.Height = t.Geometry.Height
		if fork.InteriorHeight()%2 != 0 {
			s.Geometry.Height++
		}
		s.Geometry.Y = t.Geometry.Height + 2*tb

	case SplitVertical:
		full := fork.InteriorHeight()
		t.Geometry.Height = full - 2*tb
		s.Geometry.Height = t.Geometry.Height

		half := fork.InteriorWidth() / 2
		t.Geometry.Width = half - 2*tb
		s.Geometry.Width = t.Geometry.Width
		if fork.InteriorWidth()%2 != 0 {
			s.Geometry.Width++
		}
		s.Geometry.X = t.Geometry.Width + 2*tb
	}

	if err := e.pushGeometry(t); err != nil {
		return err
	}
	if err := e.pushGeometry(s); err != nil {
		return err
	}
	if err := e.resizeChildren(t); err != nil {
		return err
	}
	if err := e.resizeChildren(s); err != nil {
		return err
	}

	if err := e.tileSetActiveNode(root, t); err != nil {
		return err
	}

	if err := e.bk.Map(fork.Handle); err != nil {
		return err
	}
	if err := e.bk.Map(s.Handle); err != nil {
		return err
	}
	if err := e.bk.Map(t.Handle); err != nil {
		return err
	}
	return nil
}
