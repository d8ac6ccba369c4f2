// Package backend defines the seam between the layout engine and the
// display server. The engine never speaks to the display server
// directly; it only calls the operations named here, and only learns
// about the outside world through the events the caller feeds into the
// router package.
//
// Concrete implementations live in backend/x11 (a real XCB backend, for
// the cmd/fion binary) and backend/mock (a recording fake, for tests).
package backend

import (
	"errors"
	"strconv"
)

// WindowID is a display-server window handle. It is opaque to the
// engine beyond identity and ordering for index lookups.
type WindowID uint32

// NoWindow is the zero WindowID, used where a handle is not yet
// assigned (mirrors xcb_window_t 0 / XCB_NONE).
const NoWindow WindowID = 0

// Kind selects the colour/border defaults a CreateWindow call should
// apply and is carried by every node so the engine can ask the backend
// to (re)apply its profile.
type Kind int

const (
	KindScreen Kind = iota
	KindStatus
	KindWorkArea
	KindWorkspace
	KindTileFork
	KindTile
	KindFrame
	KindClient
)

func (k Kind) String() string {
	switch k {
	case KindScreen:
		return "screen"
	case KindStatus:
		return "status"
	case KindWorkArea:
		return "workarea"
	case KindWorkspace:
		return "workspace"
	case KindTileFork:
		return "tilefork"
	case KindTile:
		return "tile"
	case KindFrame:
		return "frame"
	case KindClient:
		return "client"
	default:
		return "unknown"
	}
}

// BorderWidth returns the default border width in pixels for kind.
// window.c's create_client never sets a border width (it is left at the
// zero value from calloc), so Client defaults to 0 here too.
func (k Kind) BorderWidth() int {
	switch k {
	case KindScreen:
		return 0
	case KindStatus:
		return 1
	case KindWorkArea:
		return 1
	case KindWorkspace:
		return 1
	case KindTileFork:
		return 0
	case KindTile:
		return 1
	case KindFrame:
		return 1
	case KindClient:
		return 0
	default:
		return 0
	}
}

// Screen describes one physical display root: its root window handle,
// pixel dimensions, and the visual id new top-level windows on it
// should be created with.
type Screen struct {
	Root       WindowID
	Width      int
	Height     int
	RootVisual uint32
}

// Geometry is the (x, y, width, height, border_width) tuple every node
// carries, relative to its parent's origin.
type Geometry struct {
	X, Y          int
	Width, Height int
	BorderWidth   int
}

// ConfigureGeometry is passed to Configure. BorderWidth is optional —
// a nil pointer means "leave the border width unchanged".
type ConfigureGeometry struct {
	X, Y          int
	Width, Height int
	BorderWidth   *int
}

// ErrInvalidColour is returned by ParseColour for malformed input. Bad
// colours are only ever supplied at start-up (keybinding/colour config),
// so this is fatal there and never seen once the event loop is running.
var ErrInvalidColour = errors.New("backend: invalid colour")

// ParseColour parses a "#RRGGBB" string into a packed 24-bit RGB value,
// the representation CreateWindow/SetBorderColour pass to the backend.
// Grounded on window.c's rgb_pixel(), which parses the same nibble
// pairs with strtol base 16.
func ParseColour(s string) (uint32, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, ErrInvalidColour
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, ErrInvalidColour
	}
	return uint32(v), nil
}

// Default colour table. Workspace's border is a random 24-bit value per
// node, so it is not a fixed constant here — callers generate one per
// workspace (see wm.Engine.randomColour).
const (
	ColourScreenBackground    = 0x335599
	ColourStatusBackground    = 0x000000
	ColourStatusBorder        = 0x0000ff
	ColourWorkAreaBackground  = 0x000000
	ColourWorkAreaBorder      = 0x0000ff
	ColourWorkspaceBackground = 0x000000
	ColourTileBackground      = 0x000000
	ColourTileInactiveBorder  = 0x335599
	ColourTileFirstBorder     = 0xffffff
	ColourTileActiveBorder    = 0xff0000
	ColourClientBackground    = 0x000000
	ColourClientBorder        = 0xffffff
)

// Status bar drawing constants.
const (
	StatusHeight       = 16
	StatusFont         = "7x13"
	StatusTextBaseline = 12
)

// Display is the seam the layout engine issues backend calls through.
// Implementations must make each call's effects visible by the time
// Flush returns; batching internally is allowed.
type Display interface {
	// NewWindowID allocates a fresh display-server window handle.
	NewWindowID() (WindowID, error)

	// CreateWindow creates a window of the given kind at geom, with the
	// caller-supplied background/border colours applied immediately.
	CreateWindow(kind Kind, handle, parent WindowID, geom Geometry, rootVisual uint32, background, border uint32) error

	Map(handle WindowID) error
	Unmap(handle WindowID) error
	Raise(handle WindowID) error
	// Reparent moves handle under newParent, at origin (0, 0).
	Reparent(handle, newParent WindowID) error

	Configure(handle WindowID, geom ConfigureGeometry) error

	SetBorderColour(handle WindowID, rgb uint32) error
	SetBorderWidth(handle WindowID, px int) error

	// GrabKey registers a passive async key grab on root.
	GrabKey(root WindowID, modifierMask uint16, keycode uint8) error
	// ResolveKeysym maps a keycode (as reported by a key event) to the
	// keysym for the given keyboard group.
	ResolveKeysym(keycode uint8, group int) (keysym uint32, err error)
	// ResolveKeycodes maps a keysym to every keycode that produces it,
	// for grabbing every physical key bound to a keybinding.
	ResolveKeycodes(keysym uint32) ([]uint8, error)

	DrawText(handle WindowID, x, y int, font string, fg, bg uint32, text string) error

	Flush() error
}
