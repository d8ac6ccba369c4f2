package wm

import (
	"testing"

	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/backend/mock"
	"github.com/poolpOrg/fion/internal/wmlog"
)

func newTestEngine() (*Engine, *mock.Backend) {
	bk := mock.New()
	log := wmlog.New()
	return New(bk, log), bk
}

func mustRegisterScreen(t *testing.T, e *Engine, root backend.WindowID, w, h int) *Node {
	t.Helper()
	screen, err := e.RegisterScreen(backend.Screen{Root: root, Width: w, Height: h, RootVisual: 1})
	if err != nil {
		t.Fatalf("RegisterScreen: %v", err)
	}
	return screen
}

func TestRegisterScreenGeometry(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)

	var status, workarea *Node
	it := screen.Children.Iter()
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		switch n.Kind {
		case backend.KindStatus:
			status = n
		case backend.KindWorkArea:
			workarea = n
		}
	}
	if status == nil || workarea == nil {
		t.Fatalf("screen missing status/workarea children")
	}

	wantStatus := backend.Geometry{X: 0, Y: 0, Width: 1918, Height: 16, BorderWidth: 1}
	if status.Geometry != wantStatus {
		t.Errorf("status geometry = %+v, want %+v", status.Geometry, wantStatus)
	}

	wantWorkArea := backend.Geometry{X: 0, Y: 17, Width: 1918, Height: 1060, BorderWidth: 1}
	if workarea.Geometry != wantWorkArea {
		t.Errorf("workarea geometry = %+v, want %+v", workarea.Geometry, wantWorkArea)
	}

	ws := e.currWorkspace.XGet(uint64(screen.Handle))
	wantWorkspaceW := workarea.InteriorWidth() - 2*ws.Geometry.BorderWidth
	wantWorkspaceH := workarea.InteriorHeight() - 2*ws.Geometry.BorderWidth
	if ws.Geometry.Width != wantWorkspaceW || ws.Geometry.Height != wantWorkspaceH {
		t.Errorf("workspace geometry = %+v, want w=%d h=%d", ws.Geometry, wantWorkspaceW, wantWorkspaceH)
	}

	tile := e.currTile.XGet(uint64(screen.Handle))
	fork := e.parent(tile)
	if fork.Kind != backend.KindTileFork {
		t.Fatalf("tile's parent is %v, want tilefork", fork.Kind)
	}
	if tile.Geometry.Width != ws.InteriorWidth()-2*tile.Geometry.BorderWidth {
		t.Errorf("initial tile width = %d, want %d", tile.Geometry.Width, ws.InteriorWidth()-2*tile.Geometry.BorderWidth)
	}
}

func TestTileSplitHorizontal(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	t0 := e.currTile.XGet(uint64(root))
	startW, startH := t0.Geometry.Width, t0.Geometry.Height

	if err := e.TileSplit(root, SplitHorizontal); err != nil {
		t.Fatalf("TileSplit: %v", err)
	}

	active := e.currTile.XGet(uint64(root))
	if active.ObjID != t0.ObjID {
		t.Fatalf("active tile changed identity across split: %d -> %d", t0.ObjID, active.ObjID)
	}
	fork := e.parent(active)
	if fork.Children.Len() != 2 {
		t.Fatalf("fork has %d children after split, want 2", fork.Children.Len())
	}

	var sibling *Node
	it := fork.Children.Iter()
	for {
		_, n, ok := it.Next()
		if !ok {
			break
		}
		if n.ObjID != active.ObjID {
			sibling = n
		}
	}
	if sibling == nil {
		t.Fatalf("no sibling tile found after split")
	}

	if active.Geometry.Width != startW {
		t.Errorf("width changed on a horizontal split: %d -> %d", startW, active.Geometry.Width)
	}
	if sibling.Geometry.Width != active.Geometry.Width {
		t.Errorf("sibling width %d != tile width %d", sibling.Geometry.Width, active.Geometry.Width)
	}

	sumHeights := active.Geometry.Height + sibling.Geometry.Height + 2*active.Geometry.BorderWidth*2
	if sumHeights != startH+2*active.Geometry.BorderWidth {
		t.Errorf("split heights %d+%d(+borders) != original %d(+borders)", active.Geometry.Height, sibling.Geometry.Height, startH)
	}
	// odd leftover pixel must land on the new sibling, never on the
	// original active tile.
	if sibling.Geometry.Height < active.Geometry.Height {
		t.Errorf("leftover pixel landed on the original tile instead of its sibling")
	}
}

func TestTileNextPrevCycleIsPermutation(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	if err := e.TileSplit(root, SplitHorizontal); err != nil {
		t.Fatalf("split 1: %v", err)
	}
	if err := e.TileSplit(root, SplitVertical); err != nil {
		t.Fatalf("split 2: %v", err)
	}

	start := e.currTile.XGet(uint64(root))
	seen := map[uint64]bool{start.ObjID: true}
	cur := start
	for i := 0; i < e.tilesByID.Len()-1; i++ {
		if err := e.TileNext(root); err != nil {
			t.Fatalf("TileNext: %v", err)
		}
		cur = e.currTile.XGet(uint64(root))
		if seen[cur.ObjID] {
			t.Fatalf("TileNext revisited tile %d before completing a full cycle", cur.ObjID)
		}
		seen[cur.ObjID] = true
	}
	if err := e.TileNext(root); err != nil {
		t.Fatalf("TileNext wrap: %v", err)
	}
	if got := e.currTile.XGet(uint64(root)); got.ObjID != start.ObjID {
		t.Errorf("TileNext did not wrap back to start: got %d, want %d", got.ObjID, start.ObjID)
	}

	// Prev immediately after Next lands back where we started from.
	if err := e.TilePrev(root); err != nil {
		t.Fatalf("TilePrev: %v", err)
	}
	if got := e.currTile.XGet(uint64(root)); got.ObjID != cur.ObjID {
		t.Errorf("TilePrev after TileNext: got %d, want %d", got.ObjID, cur.ObjID)
	}
}

func TestTileDestroySoleTileIsNoop(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle
	before := e.currTile.XGet(uint64(root))

	if err := e.TileDestroy(root); err != nil {
		t.Fatalf("TileDestroy: %v", err)
	}
	after := e.currTile.XGet(uint64(root))
	if before.ObjID != after.ObjID {
		t.Errorf("destroying the only tile changed the active tile")
	}
}

func TestTileDestroyKeepsWorkspaceTopFork(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	topFork := e.parent(e.currTile.XGet(uint64(root)))
	if err := e.TileSplit(root, SplitHorizontal); err != nil {
		t.Fatalf("split: %v", err)
	}
	if topFork.Children.Len() != 2 {
		t.Fatalf("top fork has %d children after one split, want 2", topFork.Children.Len())
	}

	if err := e.TileDestroy(root); err != nil {
		t.Fatalf("TileDestroy: %v", err)
	}

	if topFork.Children.Len() != 1 {
		t.Fatalf("top fork has %d children after destroy, want 1", topFork.Children.Len())
	}
	remaining := e.currTile.XGet(uint64(root))
	if remaining.Parent != topFork.Handle {
		t.Errorf("remaining tile's parent = %v, want the workspace's top fork %v", remaining.Parent, topFork.Handle)
	}
}

func TestWorkspaceCycleIsPermutation(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	if err := e.WorkspaceCreate(root); err != nil {
		t.Fatalf("WorkspaceCreate 1: %v", err)
	}
	if err := e.WorkspaceCreate(root); err != nil {
		t.Fatalf("WorkspaceCreate 2: %v", err)
	}

	workarea := e.currWorkArea.XGet(uint64(root))
	if workarea.Children.Len() != 3 {
		t.Fatalf("workarea has %d workspaces, want 3", workarea.Children.Len())
	}

	start := e.currWorkspace.XGet(uint64(root))
	seen := map[uint64]bool{start.ObjID: true}
	for i := 0; i < workarea.Children.Len()-1; i++ {
		if err := e.WorkspaceNext(root); err != nil {
			t.Fatalf("WorkspaceNext: %v", err)
		}
		cur := e.currWorkspace.XGet(uint64(root))
		if seen[cur.ObjID] {
			t.Fatalf("WorkspaceNext revisited %d before a full cycle", cur.ObjID)
		}
		seen[cur.ObjID] = true
	}
	if err := e.WorkspaceNext(root); err != nil {
		t.Fatalf("WorkspaceNext wrap: %v", err)
	}
	if got := e.currWorkspace.XGet(uint64(root)); got.ObjID != start.ObjID {
		t.Errorf("WorkspaceNext did not wrap: got %d want %d", got.ObjID, start.ObjID)
	}
}

func TestWorkspaceDestroyLastIsNoop(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	before := e.currWorkspace.XGet(uint64(root))
	if err := e.WorkspaceDestroy(root); err != nil {
		t.Fatalf("WorkspaceDestroy: %v", err)
	}
	after := e.currWorkspace.XGet(uint64(root))
	if before.ObjID != after.ObjID {
		t.Errorf("destroying the only workspace changed the active workspace")
	}
	workarea := e.currWorkArea.XGet(uint64(root))
	if workarea.Children.Len() != 1 {
		t.Errorf("workarea has %d workspaces after rejected destroy, want 1", workarea.Children.Len())
	}
}

func TestClientAttachDetach(t *testing.T) {
	e, bk := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	clientHandle := backend.WindowID(9001)
	bk.Windows[clientHandle] = &mock.WindowState{}

	client, err := e.ClientAttach(root, clientHandle)
	if err != nil {
		t.Fatalf("ClientAttach: %v", err)
	}
	tile := e.currTile.XGet(uint64(root))
	if client.Parent != tile.Handle {
		t.Fatalf("client parent = %v, want active tile %v", client.Parent, tile.Handle)
	}
	if _, ok := e.Lookup(clientHandle); !ok {
		t.Fatalf("client not present in windows index after attach")
	}

	if err := e.ClientDetach(clientHandle); err != nil {
		t.Fatalf("ClientDetach: %v", err)
	}
	if _, ok := e.Lookup(clientHandle); ok {
		t.Errorf("client still present in windows index after detach")
	}
	if _, ok := tile.Children.Get(client.ObjID); ok {
		t.Errorf("client still present in tile's children after detach")
	}
}

func TestClientDetachUnknownHandleIsNoop(t *testing.T) {
	e, _ := newTestEngine()
	if err := e.ClientDetach(backend.WindowID(424242)); err != nil {
		t.Fatalf("ClientDetach on unknown handle: %v", err)
	}
}

func TestWorkspaceSwitchUpdatesActiveTile(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	if err := e.WorkspaceCreate(root); err != nil {
		t.Fatalf("WorkspaceCreate 1: %v", err)
	}
	if err := e.WorkspaceCreate(root); err != nil {
		t.Fatalf("WorkspaceCreate 2: %v", err)
	}
	ws3 := e.currWorkspace.XGet(uint64(root))

	// Switching visible workspaces must move currTile along with it: a
	// leftover pointer into the workspace just hidden would let a tile
	// command silently operate on the wrong (invisible) workspace.
	if err := e.WorkspacePrev(root); err != nil {
		t.Fatalf("WorkspacePrev: %v", err)
	}
	ws2 := e.currWorkspace.XGet(uint64(root))
	if ws2.ObjID == ws3.ObjID {
		t.Fatalf("WorkspacePrev did not change the visible workspace")
	}

	tile := e.currTile.XGet(uint64(root))
	tileWS, ok := e.ancestor(tile, backend.KindWorkspace)
	if !ok || tileWS.ObjID != ws2.ObjID {
		t.Fatalf("currTile belongs to workspace %v, want the now-visible workspace %v", tileWS, ws2.ObjID)
	}

	if err := e.TileSplit(root, SplitHorizontal); err != nil {
		t.Fatalf("TileSplit after workspace switch: %v", err)
	}
	split := e.currTile.XGet(uint64(root))
	splitWS, ok := e.ancestor(split, backend.KindWorkspace)
	if !ok || splitWS.ObjID != ws2.ObjID {
		t.Errorf("tile split after WorkspacePrev landed in workspace %v, want %v", splitWS, ws2.ObjID)
	}
}

func TestWorkspaceDestroyThenTileCommandDoesNotPanic(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	if err := e.WorkspaceCreate(root); err != nil {
		t.Fatalf("WorkspaceCreate 1: %v", err)
	}
	ws1 := e.findWorkspacePrev(e.currWorkArea.XGet(uint64(root)), e.currWorkspace.XGet(uint64(root)))
	if err := e.WorkspaceCreate(root); err != nil {
		t.Fatalf("WorkspaceCreate 2: %v", err)
	}

	// Visit the middle workspace (mirrors the default "workspace mode: p"
	// keybinding) before destroying it.
	if err := e.WorkspacePrev(root); err != nil {
		t.Fatalf("WorkspacePrev: %v", err)
	}

	if err := e.WorkspaceDestroy(root); err != nil {
		t.Fatalf("WorkspaceDestroy: %v", err)
	}
	surviving := e.currWorkspace.XGet(uint64(root))
	if surviving.ObjID != ws1.ObjID {
		t.Fatalf("surviving workspace = %d, want the work area's first child %d", surviving.ObjID, ws1.ObjID)
	}

	// Before the fix, currTile still pointed at the destroyed workspace's
	// tile, whose parent chain was already purged: any subsequent tile
	// command would panic reaching through e.parent.
	if err := e.TileSplit(root, SplitHorizontal); err != nil {
		t.Fatalf("TileSplit after WorkspaceDestroy: %v", err)
	}
	if err := e.TileDestroy(root); err != nil {
		t.Fatalf("TileDestroy after WorkspaceDestroy: %v", err)
	}
	if err := e.TileNext(root); err != nil {
		t.Fatalf("TileNext after WorkspaceDestroy: %v", err)
	}
}

func TestNoOrphanIndexEntriesAfterWorkspaceDestroy(t *testing.T) {
	e, _ := newTestEngine()
	screen := mustRegisterScreen(t, e, 1, 1920, 1080)
	root := screen.Handle

	if err := e.WorkspaceCreate(root); err != nil {
		t.Fatalf("WorkspaceCreate: %v", err)
	}
	if err := e.TileSplit(root, SplitHorizontal); err != nil {
		t.Fatalf("TileSplit: %v", err)
	}
	beforeTiles := e.tilesByID.Len()
	beforeWindows := e.windows.Len()

	// Switch back to the first workspace, then destroy the second one
	// (the one we just split), and make sure its tiles vanish from both
	// global indices.
	if err := e.WorkspacePrev(root); err != nil {
		t.Fatalf("WorkspacePrev: %v", err)
	}
	if err := e.WorkspaceNext(root); err != nil {
		t.Fatalf("WorkspaceNext: %v", err)
	}
	if err := e.WorkspaceDestroy(root); err != nil {
		t.Fatalf("WorkspaceDestroy: %v", err)
	}

	if e.tilesByID.Len() >= beforeTiles {
		t.Errorf("tilesByID did not shrink after destroying a workspace with 2 tiles: before=%d after=%d", beforeTiles, e.tilesByID.Len())
	}
	if e.windows.Len() >= beforeWindows {
		t.Errorf("windows index did not shrink after destroying a workspace: before=%d after=%d", beforeWindows, e.windows.Len())
	}
}
