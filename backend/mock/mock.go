// Package mock implements a recording, in-memory backend.Display for
// tests. It performs no real display-server I/O; it tracks enough state
// (mapped/unmapped, border colour/width, last configured geometry) for
// assertions, and records every call in order so tests can assert on
// the exact sequence of backend operations a command produced.
package mock

import "github.com/poolpOrg/fion/backend"

// Call is one recorded backend invocation.
type Call struct {
	Op     string
	Handle backend.WindowID
	Args   []any
}

// WindowState is the mock's view of one window's mutable backend state.
type WindowState struct {
	Kind        backend.Kind
	Parent      backend.WindowID
	Geometry    backend.Geometry
	Mapped      bool
	BorderColor uint32
	Background  uint32
}

// Backend is a backend.Display that records calls instead of talking to
// a display server.
type Backend struct {
	nextID  backend.WindowID
	Windows map[backend.WindowID]*WindowState
	Calls   []Call

	// Keymap lets tests control ResolveKeysym/ResolveKeycodes without a
	// real X server's keyboard mapping.
	Keysyms   map[uint8]uint32
	Keycodes  map[uint32][]uint8
	FlushCols int
}

// New returns an empty mock backend. Window ids start at 1 (0 is
// backend.NoWindow) and skip any handle the mock already tracks, such as
// a screen root passed to CreateWindow.
func New() *Backend {
	return &Backend{
		nextID:  1,
		Windows: make(map[backend.WindowID]*WindowState),
	}
}

func (b *Backend) record(op string, handle backend.WindowID, args ...any) {
	b.Calls = append(b.Calls, Call{Op: op, Handle: handle, Args: args})
}

func (b *Backend) NewWindowID() (backend.WindowID, error) {
	for {
		if _, taken := b.Windows[b.nextID]; !taken {
			break
		}
		b.nextID++
	}
	id := b.nextID
	b.nextID++
	b.record("NewWindowID", id)
	return id, nil
}

func (b *Backend) CreateWindow(kind backend.Kind, handle, parent backend.WindowID, geom backend.Geometry, rootVisual uint32, background, border uint32) error {
	b.Windows[handle] = &WindowState{
		Kind:        kind,
		Parent:      parent,
		Geometry:    geom,
		BorderColor: border,
		Background:  background,
	}
	b.record("CreateWindow", handle, kind, parent, geom)
	return nil
}

func (b *Backend) Map(handle backend.WindowID) error {
	if w, ok := b.Windows[handle]; ok {
		w.Mapped = true
	}
	b.record("Map", handle)
	return nil
}

func (b *Backend) Unmap(handle backend.WindowID) error {
	if w, ok := b.Windows[handle]; ok {
		w.Mapped = false
	}
	b.record("Unmap", handle)
	return nil
}

func (b *Backend) Raise(handle backend.WindowID) error {
	b.record("Raise", handle)
	return nil
}

func (b *Backend) Reparent(handle, newParent backend.WindowID) error {
	if w, ok := b.Windows[handle]; ok {
		w.Parent = newParent
		w.Geometry.X, w.Geometry.Y = 0, 0
	}
	b.record("Reparent", handle, newParent)
	return nil
}

func (b *Backend) Configure(handle backend.WindowID, geom backend.ConfigureGeometry) error {
	if w, ok := b.Windows[handle]; ok {
		w.Geometry.X, w.Geometry.Y = geom.X, geom.Y
		w.Geometry.Width, w.Geometry.Height = geom.Width, geom.Height
		if geom.BorderWidth != nil {
			w.Geometry.BorderWidth = *geom.BorderWidth
		}
	}
	b.record("Configure", handle, geom)
	return nil
}

func (b *Backend) SetBorderColour(handle backend.WindowID, rgb uint32) error {
	if w, ok := b.Windows[handle]; ok {
		w.BorderColor = rgb
	}
	b.record("SetBorderColour", handle, rgb)
	return nil
}

func (b *Backend) SetBorderWidth(handle backend.WindowID, px int) error {
	if w, ok := b.Windows[handle]; ok {
		w.Geometry.BorderWidth = px
	}
	b.record("SetBorderWidth", handle, px)
	return nil
}

func (b *Backend) GrabKey(root backend.WindowID, modifierMask uint16, keycode uint8) error {
	b.record("GrabKey", root, modifierMask, keycode)
	return nil
}

func (b *Backend) ResolveKeysym(keycode uint8, group int) (uint32, error) {
	return b.Keysyms[keycode], nil
}

func (b *Backend) ResolveKeycodes(keysym uint32) ([]uint8, error) {
	return b.Keycodes[keysym], nil
}

func (b *Backend) DrawText(handle backend.WindowID, x, y int, font string, fg, bg uint32, text string) error {
	b.record("DrawText", handle, x, y, font, fg, bg, text)
	return nil
}

func (b *Backend) Flush() error {
	b.FlushCols++
	b.record("Flush", backend.NoWindow)
	return nil
}

var _ backend.Display = (*Backend)(nil)
