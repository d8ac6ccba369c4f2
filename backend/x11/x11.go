// Package x11 implements backend.Display against a real X server using
// github.com/jezek/xgb, a pure-Go XCB binding. It is the production
// counterpart to backend/mock, grounded on the marwind window manager's
// use of the (upstream) xgb/xproto package for window creation,
// attribute changes, key grabbing and event retrieval, and on the
// original window.c/event.c for which XCB calls correspond to which
// backend operation.
package x11

import (
	"fmt"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/router"
)

// Backend is a backend.Display and a router.Source backed by one X
// connection.
//
// xgb delivers events through WaitForEvent, a blocking call with no
// timeout parameter — there is no raw socket fd to hand the router's
// poll loop directly. A background goroutine drains WaitForEvent into
// events and signals readiness through a self-pipe, whose read end FD
// exposes so the router can still block in a single unix.Poll call
// with a timeout, the way an X11 client without a native pollable fd
// typically bridges a blocking event read into a poll loop.
type Backend struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	gc     xproto.Gcontext

	keysyms      []xproto.Keysym
	keysymsPerKC int
	minKeycode   byte
	maxKeycode   byte

	events    chan router.Event
	wakeRead  *os.File
	wakeWrite *os.File
}

// Connect opens a connection to the X server named by display (the
// empty string means $DISPLAY), and caches the keyboard mapping needed
// by ResolveKeysym/ResolveKeycodes.
func Connect(display string) (*Backend, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("x11: connect: %w", err)
	}
	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("x11: no screens advertised by server")
	}
	screen := &setup.Roots[0]

	gcid, err := xproto.NewGcontextId(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11: allocate gcontext: %w", err)
	}
	mask := uint32(xproto.GcForeground | xproto.GcBackground)
	values := []uint32{screen.WhitePixel, screen.BlackPixel}
	if err := xproto.CreateGCChecked(conn, gcid, xproto.Drawable(screen.Root), mask, values).Check(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11: create gcontext: %w", err)
	}

	b := &Backend{conn: conn, screen: screen, gc: gcid}
	if err := b.loadKeyboardMapping(setup); err != nil {
		conn.Close()
		return nil, err
	}

	wakeRead, wakeWrite, err := os.Pipe()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11: self-pipe: %w", err)
	}
	b.wakeRead = wakeRead
	b.wakeWrite = wakeWrite
	b.events = make(chan router.Event, 64)
	go b.pumpEvents()

	return b, nil
}

// pumpEvents runs for the lifetime of the connection, translating each
// blocking WaitForEvent into a router.Event and pinging the self-pipe
// so a unix.Poll on FD() wakes up. X errors are skipped; it exits once
// the connection is closed and WaitForEvent returns neither an event nor
// an error.
func (b *Backend) pumpEvents() {
	for {
		raw, xerr := b.conn.WaitForEvent()
		if raw == nil && xerr == nil {
			// Connection closed.
			return
		}
		if xerr != nil {
			continue
		}
		ev, ok := translateEvent(raw)
		if !ok {
			continue
		}
		b.events <- ev
		b.wakeWrite.Write([]byte{0})
	}
}

func (b *Backend) loadKeyboardMapping(setup *xproto.SetupInfo) error {
	b.minKeycode = byte(setup.MinKeycode)
	b.maxKeycode = byte(setup.MaxKeycode)
	count := byte(int(b.maxKeycode) - int(b.minKeycode) + 1)

	reply, err := xproto.GetKeyboardMapping(b.conn, xproto.Keycode(b.minKeycode), count).Reply()
	if err != nil {
		return fmt.Errorf("x11: get keyboard mapping: %w", err)
	}
	b.keysyms = reply.Keysyms
	b.keysymsPerKC = int(reply.KeysymsPerKeycode)
	return nil
}

// RootWindow returns the default screen's root window handle.
func (b *Backend) RootWindow() backend.WindowID {
	return backend.WindowID(b.screen.Root)
}

// RootVisual returns the default screen's root visual id, for use as
// the rootVisual argument to backend.Screen.
func (b *Backend) RootVisual() uint32 {
	return uint32(b.screen.RootVisual)
}

// ScreenSize returns the default screen's pixel dimensions.
func (b *Backend) ScreenSize() (int, int) {
	return int(b.screen.WidthInPixels), int(b.screen.HeightInPixels)
}

// Close releases the X connection. pumpEvents observes the closed
// connection on its next WaitForEvent and exits on its own.
func (b *Backend) Close() {
	b.conn.Close()
	b.wakeWrite.Close()
	b.wakeRead.Close()
}

func (b *Backend) NewWindowID() (backend.WindowID, error) {
	id, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return backend.NoWindow, err
	}
	return backend.WindowID(id), nil
}

func (b *Backend) CreateWindow(kind backend.Kind, handle, parent backend.WindowID, geom backend.Geometry, rootVisual uint32, background, border uint32) error {
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwEventMask)
	values := []uint32{
		background,
		border,
		uint32(xproto.EventMaskStructureNotify | xproto.EventMaskSubstructureNotify | xproto.EventMaskEnterWindow),
	}
	return xproto.CreateWindowChecked(
		b.conn,
		b.screen.RootDepth,
		xproto.Window(handle),
		xproto.Window(parent),
		int16(geom.X), int16(geom.Y),
		uint16(geom.Width), uint16(geom.Height),
		uint16(geom.BorderWidth),
		xproto.WindowClassInputOutput,
		xproto.Visualid(rootVisual),
		mask, values,
	).Check()
}

func (b *Backend) Map(handle backend.WindowID) error {
	return xproto.MapWindowChecked(b.conn, xproto.Window(handle)).Check()
}

func (b *Backend) Unmap(handle backend.WindowID) error {
	return xproto.UnmapWindowChecked(b.conn, xproto.Window(handle)).Check()
}

func (b *Backend) Raise(handle backend.WindowID) error {
	mask := uint16(xproto.ConfigWindowStackMode)
	values := []uint32{uint32(xproto.StackModeAbove)}
	return xproto.ConfigureWindowChecked(b.conn, xproto.Window(handle), mask, values).Check()
}

func (b *Backend) Reparent(handle, newParent backend.WindowID) error {
	return xproto.ReparentWindowChecked(b.conn, xproto.Window(handle), xproto.Window(newParent), 0, 0).Check()
}

func (b *Backend) Configure(handle backend.WindowID, geom backend.ConfigureGeometry) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(geom.X)), uint32(int32(geom.Y)), uint32(geom.Width), uint32(geom.Height)}
	if geom.BorderWidth != nil {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(*geom.BorderWidth))
	}
	return xproto.ConfigureWindowChecked(b.conn, xproto.Window(handle), mask, values).Check()
}

func (b *Backend) SetBorderColour(handle backend.WindowID, rgb uint32) error {
	return xproto.ChangeWindowAttributesChecked(b.conn, xproto.Window(handle), xproto.CwBorderPixel, []uint32{rgb}).Check()
}

func (b *Backend) SetBorderWidth(handle backend.WindowID, px int) error {
	return xproto.ConfigureWindowChecked(b.conn, xproto.Window(handle), xproto.ConfigWindowBorderWidth, []uint32{uint32(px)}).Check()
}

func (b *Backend) GrabKey(root backend.WindowID, modifierMask uint16, keycode uint8) error {
	return xproto.GrabKeyChecked(
		b.conn, true, xproto.Window(root), modifierMask, xproto.Keycode(keycode),
		xproto.GrabModeAsync, xproto.GrabModeAsync,
	).Check()
}

func (b *Backend) ResolveKeysym(keycode uint8, group int) (uint32, error) {
	idx := int(keycode-b.minKeycode)*b.keysymsPerKC + group
	if idx < 0 || idx >= len(b.keysyms) {
		return 0, fmt.Errorf("x11: keycode %d group %d out of range", keycode, group)
	}
	return uint32(b.keysyms[idx]), nil
}

func (b *Backend) ResolveKeycodes(keysym uint32) ([]uint8, error) {
	var codes []uint8
	for i, ks := range b.keysyms {
		if uint32(ks) == keysym {
			kc := b.minKeycode + byte(i/b.keysymsPerKC)
			codes = append(codes, kc)
		}
	}
	return codes, nil
}

func (b *Backend) DrawText(handle backend.WindowID, x, y int, font string, fg, bg uint32, text string) error {
	if err := xproto.ChangeGCChecked(b.conn, b.gc, xproto.GcForeground|xproto.GcBackground, []uint32{fg, bg}).Check(); err != nil {
		return err
	}
	return xproto.ImageText8Checked(
		b.conn, byte(len(text)), xproto.Drawable(handle), b.gc, int16(x), int16(y), text,
	).Check()
}

func (b *Backend) Flush() error {
	_, err := xproto.GetInputFocus(b.conn).Reply()
	return err
}

var _ backend.Display = (*Backend)(nil)
