package router

import (
	"testing"

	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/backend/mock"
	"github.com/poolpOrg/fion/internal/wmlog"
	"github.com/poolpOrg/fion/spawner"
	"github.com/poolpOrg/fion/wm"
)

type fakeSpawner struct {
	terminals int
	xeyes     int
}

func (f *fakeSpawner) RunTerminal() error { f.terminals++; return nil }
func (f *fakeSpawner) RunXeyes() error    { f.xeyes++; return nil }

var _ spawner.Spawner = (*fakeSpawner)(nil)

func newTestRouter(t *testing.T, bindings []Binding, isModal bool) (*Router, *wm.Engine, *mock.Backend, backend.WindowID) {
	t.Helper()
	bk := mock.New()
	log := wmlog.New()
	eng := wm.New(bk, log)
	screen, err := eng.RegisterScreen(backend.Screen{Root: 1, Width: 1920, Height: 1080, RootVisual: 1})
	if err != nil {
		t.Fatalf("RegisterScreen: %v", err)
	}
	bk.Keysyms = map[uint8]uint32{
		1: keysymQ, 2: keysymT, 3: keysymW, 4: keysymD,
		5: keysymH, 6: keysymV, 7: keysymN, 8: keysymP,
		9: keysymC, 10: keysymR, 11: keysymJ, 12: keysymK, 13: keysymE,
	}
	spawn := &fakeSpawner{}
	r := New(eng, bk, spawn, log, bindings, isModal)
	return r, eng, bk, screen.Handle
}

func keycodeFor(t *testing.T, bk *mock.Backend, keysym uint32) uint8 {
	t.Helper()
	for code, ks := range bk.Keysyms {
		if ks == keysym {
			return code
		}
	}
	t.Fatalf("no keycode maps to keysym %#x", keysym)
	return 0
}

func TestDirectProfileTileSplit(t *testing.T) {
	r, eng, bk, root := newTestRouter(t, DirectProfile(), false)
	before := eng.ActiveScreen()
	_ = before

	code := keycodeFor(t, bk, keysymH)
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: code, Modifiers: ModMask3}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got, ok := eng.Lookup(root); !ok || got == nil {
		t.Fatalf("screen vanished after split")
	}
}

func TestDirectProfileRunTerminal(t *testing.T) {
	r, _, bk, root := newTestRouter(t, DirectProfile(), false)
	code := keycodeFor(t, bk, keysymT)
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: code, Modifiers: ModMask3}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if r.spawn.(*fakeSpawner).terminals != 1 {
		t.Errorf("RunTerminal not invoked")
	}
}

func TestDirectProfileRunXeyes(t *testing.T) {
	r, _, bk, root := newTestRouter(t, DirectProfile(), false)
	code := keycodeFor(t, bk, keysymE)
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: code, Modifiers: ModMask3}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if r.spawn.(*fakeSpawner).xeyes != 1 {
		t.Errorf("RunXeyes not invoked")
	}
}

func TestDirectProfileQuitStopsLoop(t *testing.T) {
	r, _, bk, root := newTestRouter(t, DirectProfile(), false)
	code := keycodeFor(t, bk, keysymQ)
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: code, Modifiers: ModMask3}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !r.quit {
		t.Errorf("quit flag not set after quit binding fired")
	}
}

func TestModalProfileEntersModeAndFiresAction(t *testing.T) {
	r, _, bk, root := newTestRouter(t, ModalProfile(), true)

	// super+t IS the leader that enters tile mode directly — no
	// separate leader keystroke precedes it (spec §6).
	modeCode := keycodeFor(t, bk, keysymT)
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: modeCode, Modifiers: ModMask3}); err != nil {
		t.Fatalf("mode select dispatch: %v", err)
	}
	if r.mode != modeTile {
		t.Fatalf("mode selector did not enter tile mode, got %v", r.mode)
	}

	// In-mode action keys are bare (no modifier).
	actionCode := keycodeFor(t, bk, keysymH) // 'h' splits horizontally in tile mode
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: actionCode, Modifiers: NoModifier}); err != nil {
		t.Fatalf("action dispatch: %v", err)
	}
	if r.mode != modeNone {
		t.Errorf("mode did not reset to modeNone after firing an action")
	}
}

func TestModalProfileUnknownKeyCancelsMode(t *testing.T) {
	r, _, bk, root := newTestRouter(t, ModalProfile(), true)

	modeCode := keycodeFor(t, bk, keysymW) // super+w enters workspace mode
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: modeCode, Modifiers: ModMask3}); err != nil {
		t.Fatalf("mode select dispatch: %v", err)
	}
	if r.mode != modeWorkspace {
		t.Fatalf("expected workspace mode, got %v", r.mode)
	}

	// 'v' is not bound in workspace mode; it should cancel, not linger.
	stray := keycodeFor(t, bk, keysymV)
	if err := r.Dispatch(Event{Kind: KeyPress, Root: root, Keycode: stray, Modifiers: NoModifier}); err != nil {
		t.Fatalf("stray key dispatch: %v", err)
	}
	if r.mode != modeNone {
		t.Errorf("unbound in-mode key left the mode armed: %v", r.mode)
	}
}

func TestDispatchCreateNotifyAttachesClient(t *testing.T) {
	r, eng, bk, root := newTestRouter(t, DirectProfile(), false)
	clientHandle := backend.WindowID(500)
	bk.Windows[clientHandle] = &mock.WindowState{}

	if err := r.Dispatch(Event{Kind: CreateNotify, Root: root, Window: clientHandle, Parent: root}); err != nil {
		t.Fatalf("Dispatch CreateNotify: %v", err)
	}
	if _, ok := eng.Lookup(clientHandle); !ok {
		t.Errorf("client not attached after CreateNotify")
	}
}

func TestDispatchUnknownEventIsLogged(t *testing.T) {
	r, _, _, root := newTestRouter(t, DirectProfile(), false)
	if err := r.Dispatch(Event{Kind: Unknown, Root: root}); err != nil {
		t.Fatalf("Dispatch Unknown: %v", err)
	}
}
