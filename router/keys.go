package router

import (
	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/wm"
)

// Action runs a bound command against the screen the key was pressed
// on, mirroring the `void (*cb)(struct wm *, xcb_window_t)` signature
// of event.c's struct key.
type Action func(r *Router, root backend.WindowID) error

// Binding pairs a modifier+keysym chord with either the Action it
// triggers directly (direct profile, and the quit binding in the modal
// profile) or the Mode it enters (modal profile's mode-leader chords,
// spec §6: "super+w" IS the leader that enters workspace mode — there
// is no separate leader keystroke before it).
type Binding struct {
	Name       string
	Modifiers  uint16
	Keysym     uint32
	Action     Action
	EntersMode mode
}

// X11 keysym values for the ASCII letters/symbols the default profiles
// bind. Lifted from the XK_* constants event.c's keys[] table uses —
// named here instead of imported so router has no compile-time
// dependency on a specific X11 keysym header.
const (
	keysymQ = 0x071
	keysymT = 0x074
	keysymW = 0x077
	keysymD = 0x064
	keysymC = 0x063
	keysymH = 0x068
	keysymV = 0x076
	keysymN = 0x06e
	keysymP = 0x070
	keysymR = 0x072
	keysymE = 0x065
	keysymJ = 0x06a
	keysymK = 0x06b
)

// ModMask3 is XCB_MOD_MASK_3, the modifier event.c's default keymap
// binds every action under.
const ModMask3 = 1 << 5

func actionQuit(r *Router, root backend.WindowID) error { return r.Quit() }

func actionRunTerminal(r *Router, root backend.WindowID) error {
	if err := r.spawn.RunTerminal(); err != nil {
		r.log.Warnf("run_terminal: %v", err)
	}
	return nil
}
func actionRunXeyes(r *Router, root backend.WindowID) error {
	if err := r.spawn.RunXeyes(); err != nil {
		r.log.Warnf("run_xeyes: %v", err)
	}
	return nil
}

func actionWorkspaceCreate(r *Router, root backend.WindowID) error  { return r.eng.WorkspaceCreate(root) }
func actionWorkspaceDestroy(r *Router, root backend.WindowID) error { return r.eng.WorkspaceDestroy(root) }
func actionWorkspaceNext(r *Router, root backend.WindowID) error    { return r.eng.WorkspaceNext(root) }
func actionWorkspacePrev(r *Router, root backend.WindowID) error    { return r.eng.WorkspacePrev(root) }

func actionTileSplitH(r *Router, root backend.WindowID) error {
	return r.eng.TileSplit(root, wm.SplitHorizontal)
}
func actionTileSplitV(r *Router, root backend.WindowID) error {
	return r.eng.TileSplit(root, wm.SplitVertical)
}
func actionTileNext(r *Router, root backend.WindowID) error   { return r.eng.TileNext(root) }
func actionTilePrev(r *Router, root backend.WindowID) error   { return r.eng.TilePrev(root) }
func actionTileDestroy(r *Router, root backend.WindowID) error { return r.eng.TileDestroy(root) }

// DirectProfile is the "one modifier + letter always fires" keymap,
// the same shape as event.c's static keys[] table, plus run_xeyes
// (super+e) alongside run_terminal: wm.c's wm_run_xeyes has no direct-
// profile binding in the original table, but nothing reserves the key,
// so it gets one here too rather than being modal-profile-only.
// workspace_next/prev are bound to j/k rather than n/p: the original
// leaves them commented out entirely because n/p were reassigned to
// tile_next/tile_prev, leaving no free key for them — here they get one
// instead of staying unreachable.
func DirectProfile() []Binding {
	return []Binding{
		{Name: "quit", Modifiers: ModMask3, Keysym: keysymQ, Action: actionQuit},
		{Name: "run_terminal", Modifiers: ModMask3, Keysym: keysymT, Action: actionRunTerminal},
		{Name: "run_xeyes", Modifiers: ModMask3, Keysym: keysymE, Action: actionRunXeyes},
		{Name: "workspace_create", Modifiers: ModMask3, Keysym: keysymW, Action: actionWorkspaceCreate},
		{Name: "workspace_destroy", Modifiers: ModMask3, Keysym: keysymD, Action: actionWorkspaceDestroy},
		{Name: "workspace_next", Modifiers: ModMask3, Keysym: keysymJ, Action: actionWorkspaceNext},
		{Name: "workspace_prev", Modifiers: ModMask3, Keysym: keysymK, Action: actionWorkspacePrev},
		{Name: "tile_split_h", Modifiers: ModMask3, Keysym: keysymH, Action: actionTileSplitH},
		{Name: "tile_split_v", Modifiers: ModMask3, Keysym: keysymV, Action: actionTileSplitV},
		{Name: "tile_next", Modifiers: ModMask3, Keysym: keysymN, Action: actionTileNext},
		{Name: "tile_prev", Modifiers: ModMask3, Keysym: keysymP, Action: actionTilePrev},
	}
}

// mode names the three categories a modal leader key can enter.
type mode int

const (
	modeNone mode = iota
	modeWorkspace
	modeTile
	modeRun
)

// modalTable holds, per mode, the bare-keysym -> Action bindings
// available once that mode is entered (spec §6: modifier "—", i.e. no
// modifier — the mode itself supplies the context). Any key not present
// in the active mode's table returns to modeNone without firing an
// action.
var modalTable = map[mode]map[uint32]Action{
	modeWorkspace: {
		keysymC: actionWorkspaceCreate,
		keysymD: actionWorkspaceDestroy,
		keysymN: actionWorkspaceNext,
		keysymP: actionWorkspacePrev,
	},
	modeTile: {
		keysymD: actionTileDestroy,
		keysymN: actionTileNext,
		keysymP: actionTilePrev,
		keysymH: actionTileSplitH,
		keysymV: actionTileSplitV,
	},
	modeRun: {
		keysymT: actionRunTerminal,
		keysymE: actionRunXeyes,
	},
}

// ModalProfile is spec §6's default keymap: super+q quits directly;
// super+w/t/r each ARE the leader that enters the workspace/tile/run
// mode (there is no separate leader keystroke preceding them). Once in
// a mode, the next bare keypress is looked up in modalTable and always
// returns the state machine to modeNone, matching or not.
func ModalProfile() []Binding {
	return []Binding{
		{Name: "quit", Modifiers: ModMask3, Keysym: keysymQ, Action: actionQuit},
		{Name: "enter_workspace_mode", Modifiers: ModMask3, Keysym: keysymW, EntersMode: modeWorkspace},
		{Name: "enter_tile_mode", Modifiers: ModMask3, Keysym: keysymT, EntersMode: modeTile},
		{Name: "enter_run_mode", Modifiers: ModMask3, Keysym: keysymR, EntersMode: modeRun},
	}
}
