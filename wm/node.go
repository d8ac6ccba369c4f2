// Package wm implements the layout tree and layout engine: the
// in-memory forest of screens, workspaces, tile-forks, tiles and
// clients, and the operations that keep it consistent with user
// commands and display-server notifications.
//
// Grounded on the original layout.c almost line for line; geometry
// propagation additionally borrows a main-axis/cross-axis split
// bookkeeping style common to flex-box layout implementations.
package wm

import (
	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/internal/treeindex"
)

// Direction selects which axis a tile split divides along.
type Direction int

const (
	SplitHorizontal Direction = iota
	SplitVertical
)

// Node is the tagged variant describing one element of the layout. The
// Kind field drives dispatch; fields not meaningful for a given kind are
// left zero (only Screen uses ScreenDesc).
type Node struct {
	ObjID    uint64
	Handle   backend.WindowID
	Kind     backend.Kind
	Screen   backend.WindowID // the screen root this node belongs to
	Parent   backend.WindowID
	Geometry backend.Geometry

	// Children is ordered by child ObjID.
	Children *treeindex.Tree[*Node]

	// ScreenDesc is set only on Kind == KindScreen nodes.
	ScreenDesc *backend.Screen
}

func newNode(id uint64, kind backend.Kind, screen, parent, handle backend.WindowID, geom backend.Geometry) *Node {
	return &Node{
		ObjID:    id,
		Handle:   handle,
		Kind:     kind,
		Screen:   screen,
		Parent:   parent,
		Geometry: geom,
		Children: treeindex.New[*Node](),
	}
}

// InteriorWidth is the node's content area, excluding its own border on
// both sides.
func (n *Node) InteriorWidth() int {
	return n.Geometry.Width - 2*n.Geometry.BorderWidth
}

// InteriorHeight is the node's content area, excluding its own border
// on both sides.
func (n *Node) InteriorHeight() int {
	return n.Geometry.Height - 2*n.Geometry.BorderWidth
}
