package wm

import (
	"math/rand"
	"time"

	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/internal/objid"
	"github.com/poolpOrg/fion/internal/treeindex"
	"github.com/poolpOrg/fion/internal/wmlog"
)

// Engine owns the forest of window nodes and every secondary index
// owns. It is the only thing that ever mutates a Node;
// callers (the router package) reach it through the operations below.
//
// Like the rest of the system, Engine is single-threaded: every
// operation runs to completion, including its backend calls, before the
// next one may start.
type Engine struct {
	bk  backend.Display
	log *wmlog.Logger
	ids objid.Allocator
	rng *rand.Rand

	windows   *treeindex.Tree[*Node]
	screens   *treeindex.Tree[*Node]
	tilesByID *treeindex.Tree[*Node]

	currWorkArea  *treeindex.Tree[*Node]
	currWorkspace *treeindex.Tree[*Node]
	// currTile is keyed by screen root: the active tile of whichever
	// workspace is currently visible on that screen, the handle every
	// root-scoped tile operation (TileSplit, TileDestroy, TileNext/Prev,
	// ClientAttach, ...) reads and writes.
	currTile *treeindex.Tree[*Node]
	// tileOfWorkspace is keyed by workspace object id (spec §3's
	// "current_tile[workspace]"): the active tile remembered per
	// workspace, independent of whether that workspace is the one
	// currently visible. switchWorkspace consults it to restore the
	// right tile as currTile when the visible workspace changes, instead
	// of leaving currTile pointing at the workspace just hidden.
	tileOfWorkspace *treeindex.Tree[*Node]
	statusOf        *treeindex.Tree[*Node]

	activeScreen backend.WindowID
	screenOrder  []backend.WindowID
}

// New constructs an Engine with empty indices. No
// screens are registered yet.
func New(bk backend.Display, log *wmlog.Logger) *Engine {
	return &Engine{
		bk:              bk,
		log:             log,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		windows:         treeindex.New[*Node](),
		screens:         treeindex.New[*Node](),
		tilesByID:       treeindex.New[*Node](),
		currWorkArea:    treeindex.New[*Node](),
		currWorkspace:   treeindex.New[*Node](),
		currTile:        treeindex.New[*Node](),
		tileOfWorkspace: treeindex.New[*Node](),
		statusOf:        treeindex.New[*Node](),
	}
}

// ActiveScreen returns the screen that receives commands issued without
// explicit screen context.
func (e *Engine) ActiveScreen() backend.WindowID {
	return e.activeScreen
}

// Lookup returns the node for handle, or ok=false if it is not live.
func (e *Engine) Lookup(handle backend.WindowID) (*Node, bool) {
	return e.windows.Get(uint64(handle))
}

func (e *Engine) parent(n *Node) *Node {
	return e.windows.XGet(uint64(n.Parent))
}

// ancestor walks n's parent chain until it finds a node of kind,
// stopping (and returning ok=false) once it reaches a Screen (spec
// §4.5.3). Grounded on layout.c's find_ancestor.
func (e *Engine) ancestor(n *Node, kind backend.Kind) (*Node, bool) {
	for n.Kind != backend.KindScreen {
		p := e.parent(n)
		if p.Kind == kind {
			return p, true
		}
		n = p
	}
	return nil, false
}

func (e *Engine) screenNode(root backend.WindowID) *Node {
	return e.screens.XGet(uint64(root))
}

func (e *Engine) randomColour() uint32 {
	return e.rng.Uint32() & 0xffffff
}

func (e *Engine) pushGeometry(n *Node) error {
	bw := n.Geometry.BorderWidth
	return e.bk.Configure(n.Handle, backend.ConfigureGeometry{
		X: n.Geometry.X, Y: n.Geometry.Y,
		Width: n.Geometry.Width, Height: n.Geometry.Height,
		BorderWidth: &bw,
	})
}

// resizeChildren propagates a resized parent to its children's geometry
// (each child fills the parent's interior) and recurses into structural
// children, mirroring layout.c's tile_resize.
func (e *Engine) resizeChildren(n *Node) error {
	it := n.Children.Iter()
	for {
		_, child, ok := it.Next()
		if !ok {
			break
		}
		child.Geometry.X, child.Geometry.Y = 0, 0
		child.Geometry.Width = n.InteriorWidth() - 2*child.Geometry.BorderWidth
		child.Geometry.Height = n.InteriorHeight() - 2*child.Geometry.BorderWidth
		if err := e.pushGeometry(child); err != nil {
			return err
		}
		switch child.Kind {
		case backend.KindTileFork, backend.KindTile, backend.KindFrame:
			if err := e.resizeChildren(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// mapSubtree maps n and every descendant, top-down.
func (e *Engine) mapSubtree(n *Node) error {
	if err := e.bk.Map(n.Handle); err != nil {
		return err
	}
	it := n.Children.Iter()
	for {
		_, child, ok := it.Next()
		if !ok {
			break
		}
		if err := e.mapSubtree(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) newManagedNode(kind backend.Kind, screen backend.WindowID, parent *Node, geom backend.Geometry, background, border uint32) (*Node, error) {
	handle, err := e.bk.NewWindowID()
	if err != nil {
		return nil, err
	}
	n := newNode(e.ids.Next(), kind, screen, parent.Handle, handle, geom)
	rootVisual := uint32(0)
	if sd := e.screenNode(screen).ScreenDesc; sd != nil {
		rootVisual = sd.RootVisual
	}
	if err := e.bk.CreateWindow(kind, handle, parent.Handle, geom, rootVisual, background, border); err != nil {
		return nil, err
	}
	e.windows.XSet(uint64(handle), n)
	parent.Children.XSet(n.ObjID, n)
	return n, nil
}

// RegisterScreen creates a Screen and its mandatory Status, WorkArea,
// first Workspace and its initial TileFork+Tile. Grounded on layout.c's
// layout_screen_register + prepare_screen + prepare_workspace.
func (e *Engine) RegisterScreen(desc backend.Screen) (*Node, error) {
	screenGeom := backend.Geometry{Width: desc.Width, Height: desc.Height, BorderWidth: backend.KindScreen.BorderWidth()}
	screen := newNode(e.ids.Next(), backend.KindScreen, desc.Root, desc.Root, desc.Root, screenGeom)
	d := desc
	screen.ScreenDesc = &d
	if err := e.bk.CreateWindow(backend.KindScreen, desc.Root, desc.Root, screenGeom, desc.RootVisual, backend.ColourScreenBackground, 0); err != nil {
		return nil, err
	}
	e.windows.XSet(uint64(desc.Root), screen)
	e.screens.XSet(uint64(desc.Root), screen)
	e.screenOrder = append(e.screenOrder, desc.Root)

	status, err := e.newManagedNode(backend.KindStatus, desc.Root, screen, backend.Geometry{
		X: screen.Geometry.BorderWidth,
		Y: screen.Geometry.BorderWidth,
		Width:  screen.Geometry.Width - 2*backend.KindStatus.BorderWidth(),
		Height: backend.StatusHeight,
		BorderWidth: backend.KindStatus.BorderWidth(),
	}, backend.ColourStatusBackground, backend.ColourStatusBorder)
	if err != nil {
		return nil, err
	}
	e.statusOf.Set(uint64(desc.Root), status)

	statusBorder := backend.KindStatus.BorderWidth()
	workareaBorder := backend.KindWorkArea.BorderWidth()
	workarea, err := e.newManagedNode(backend.KindWorkArea, desc.Root, screen, backend.Geometry{
		X:           screen.Geometry.BorderWidth,
		Y:           screen.Geometry.BorderWidth + backend.StatusHeight + statusBorder,
		Width:       screen.Geometry.Width - 2*workareaBorder,
		Height:      screen.Geometry.Height - backend.StatusHeight - 2*statusBorder - 2*workareaBorder,
		BorderWidth: workareaBorder,
	}, backend.ColourWorkAreaBackground, backend.ColourWorkAreaBorder)
	if err != nil {
		return nil, err
	}
	e.currWorkArea.Set(uint64(desc.Root), workarea)

	ws, err := e.createWorkspaceNode(workarea)
	if err != nil {
		return nil, err
	}
	e.currWorkspace.Set(uint64(desc.Root), ws)

	tile, err := e.prepareWorkspaceTiles(ws)
	if err != nil {
		return nil, err
	}
	e.currTile.Set(uint64(desc.Root), tile)
	if err := e.tileSetActiveNode(desc.Root, tile); err != nil {
		return nil, err
	}

	if e.activeScreen == backend.NoWindow {
		e.activeScreen = desc.Root
	}
	return screen, nil
}

// createWorkspaceNode creates a Workspace sized to workarea's interior,
// with a random border colour, but does not touch
// any "current" pointers (callers decide whether/when to switch to it).
func (e *Engine) createWorkspaceNode(workarea *Node) (*Node, error) {
	border := backend.KindWorkspace.BorderWidth()
	geom := backend.Geometry{
		Width:       workarea.InteriorWidth() - 2*border,
		Height:      workarea.InteriorHeight() - 2*border,
		BorderWidth: border,
	}
	return e.newManagedNode(backend.KindWorkspace, workarea.Screen, workarea, geom, backend.ColourWorkspaceBackground, e.randomColour())
}

// prepareWorkspaceTiles creates the initial TileFork+Tile inside a
// freshly created workspace, mirroring layout.c's prepare_workspace. It
// returns the new active tile but does not record it as "current" —
// callers do that once they've decided whether to switch to it.
func (e *Engine) prepareWorkspaceTiles(ws *Node) (*Node, error) {
	tileBorder := backend.KindTile.BorderWidth()
	tile, err := e.newManagedNode(backend.KindTile, ws.Screen, ws, backend.Geometry{
		Width:       ws.InteriorWidth() - 2*tileBorder,
		Height:      ws.InteriorHeight() - 2*tileBorder,
		BorderWidth: tileBorder,
	}, backend.ColourTileBackground, backend.ColourTileFirstBorder)
	if err != nil {
		return nil, err
	}
	e.tilesByID.XSet(tile.ObjID, tile)

	fork, err := e.forkAround(tile)
	if err != nil {
		return nil, err
	}
	_ = fork
	return tile, nil
}

// RenderAll maps every live node, top-down, and flushes the backend
// (layout.c's render_all).
func (e *Engine) RenderAll() error {
	it := e.screens.Iter()
	for {
		_, screen, ok := it.Next()
		if !ok {
			break
		}
		if err := e.mapSubtree(screen); err != nil {
			return err
		}
	}
	return e.bk.Flush()
}

// ClientAttach creates a Client node for an externally-created window,
// parents it under the active tile on root, reparents it in the
// backend, and resizes it to the tile's interior (layout.c's
// layout_client_create).
func (e *Engine) ClientAttach(root, newWindow backend.WindowID) (*Node, error) {
	tile := e.currTile.XGet(uint64(root))
	border := backend.KindClient.BorderWidth()
	geom := backend.Geometry{
		Width:       tile.InteriorWidth() - 2*border,
		Height:      tile.InteriorHeight() - 2*border,
		BorderWidth: border,
	}
	client := newNode(e.ids.Next(), backend.KindClient, root, tile.Handle, newWindow, geom)
	if _, exists := e.windows.Get(uint64(newWindow)); !exists {
		e.windows.Set(uint64(newWindow), client)
	}
	tile.Children.XSet(client.ObjID, client)

	if err := e.bk.Reparent(newWindow, tile.Handle); err != nil {
		return nil, err
	}
	if err := e.pushGeometry(client); err != nil {
		return nil, err
	}
	return client, nil
}

// ClientDetach destroys the Client node for windowHandle and purges it
// from every index. Unknown handles are a no-op.
func (e *Engine) ClientDetach(windowHandle backend.WindowID) error {
	n, ok := e.windows.Pop(uint64(windowHandle))
	if !ok {
		return nil
	}
	if n.Kind != backend.KindClient {
		// Not a client: put it back. The router calls this for every
		// DestroyNotify, so the handle may belong to a node the engine
		// manages itself; that node is left in place.
		e.windows.Set(uint64(windowHandle), n)
		return nil
	}
	parent := e.parent(n)
	parent.Children.Pop(n.ObjID)
	return nil
}

// WindowResized re-pushes stored geometry for windowHandle: the engine
// is authoritative, so an external CONFIGURE_NOTIFY never changes the
// model, only prompts it to reassert itself.
func (e *Engine) WindowResized(windowHandle backend.WindowID) error {
	n, ok := e.windows.Get(uint64(windowHandle))
	if !ok {
		return nil
	}
	return e.pushGeometry(n)
}

// TileSetActive marks the tile whose handle matches as active and
// recolours borders accordingly. Handles that are not live
// tiles are a no-op.
func (e *Engine) TileSetActive(windowHandle backend.WindowID) error {
	n, ok := e.windows.Get(uint64(windowHandle))
	if !ok || n.Kind != backend.KindTile {
		return nil
	}
	return e.tileSetActiveNode(n.Screen, n)
}

// tileSetActiveNode is the shared implementation behind every path that
// changes the active tile. The previously active tile (if
// any, and if different from tile) reverts to the neutral border
// colour; tile itself turns red and becomes "current". It also records
// tile as tile's own workspace's remembered active tile, so a later
// switchWorkspace back to that workspace can restore it.
func (e *Engine) tileSetActiveNode(root backend.WindowID, tile *Node) error {
	key := uint64(root)
	if prev, ok := e.currTile.Get(key); ok && prev.Handle != tile.Handle {
		if err := e.bk.SetBorderColour(prev.Handle, backend.ColourTileInactiveBorder); err != nil {
			return err
		}
	}
	e.currTile.Set(key, tile)
	if ws, ok := e.ancestor(tile, backend.KindWorkspace); ok {
		e.tileOfWorkspace.Set(ws.ObjID, tile)
	}
	if err := e.bk.SetBorderColour(tile.Handle, backend.ColourTileActiveBorder); err != nil {
		return err
	}
	e.log.Debugf("current active tile: %d", tile.ObjID)
	return nil
}
