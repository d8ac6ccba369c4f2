// Package router turns display-server events into layout-engine
// operations. It owns the single event loop: one file descriptor is
// polled with a fixed timeout so the status bar clock advances even
// when no event ever arrives, the same poll-with-timeout pattern an
// X11 event loop driven over a single connection fd typically uses.
// Event classification and the (mostly stub/log-and-drop) per-type
// handling are grounded on event.c's event_loop and its on_*
// callbacks.
package router

import (
	"golang.org/x/sys/unix"

	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/internal/wmlog"
	"github.com/poolpOrg/fion/spawner"
	"github.com/poolpOrg/fion/wm"
)

// pollInterval is how long a poll waits before returning with nothing
// ready, so RefreshStatus still runs once per tick even when the
// window manager is otherwise idle.
const pollInterval = 100 // milliseconds

// Kind classifies a Source event. Only the subset the layout engine
// cares about get real handling; everything else is logged and
// dropped, matching the dozens of empty on_* stubs in event.c.
type Kind int

const (
	KeyPress Kind = iota
	CreateNotify
	DestroyNotify
	MapRequest
	ConfigureNotify
	EnterNotify
	Unknown
)

// Event is a display-server notification, reduced to the fields the
// router or the engine ever inspects.
type Event struct {
	Kind      Kind
	Root      backend.WindowID
	Window    backend.WindowID
	Parent    backend.WindowID
	Keycode   uint8
	Modifiers uint16
}

// Source feeds the router events. A concrete display backend (such as
// backend/x11) also implements Source over its own connection.
type Source interface {
	// FD is the file descriptor the router polls for readiness.
	FD() int
	// Next dequeues the next already-buffered event. ok is false once
	// the queue is drained for this wake-up.
	Next() (Event, bool, error)
}

// Router dispatches events from a Source into wm.Engine operations and
// runs the keybinding state machine.
type Router struct {
	eng   *wm.Engine
	bk    backend.Display
	spawn spawner.Spawner
	log   *wmlog.Logger

	bindings []Binding
	isModal  bool

	mode mode

	quit bool
}

// New constructs a Router with the given keybinding profile (see
// DirectProfile/ModalProfile). isModal must be true when bindings came
// from ModalProfile, so GrabKeys and key handling engage the mode state
// machine instead of firing bindings directly.
func New(eng *wm.Engine, bk backend.Display, spawn spawner.Spawner, log *wmlog.Logger, bindings []Binding, isModal bool) *Router {
	return &Router{eng: eng, bk: bk, spawn: spawn, log: log, bindings: bindings, isModal: isModal}
}

// NoModifier is the grab modifier mask for modal in-mode action keys
// (spec §6's keybinding table lists "—" for their modifier: once a mode
// is active, the bare key alone selects the action).
const NoModifier uint16 = 0

// GrabKeys registers every reachable keysym on root via the backend,
// resolving each to the physical keycodes that produce it — mirroring
// event.c's event_grab_keys. Top-level Bindings (direct-profile actions,
// and the modal profile's quit/mode-entering chords) grab under their
// own Modifiers; the modal profile additionally grabs every in-mode
// action key bare (no modifier), since those arrive as plain KeyPress
// events once a mode is armed.
func (r *Router) GrabKeys(root backend.WindowID) error {
	type grab struct {
		keysym uint32
		mods   uint16
	}
	grabs := make([]grab, 0, len(r.bindings))
	for _, b := range r.bindings {
		grabs = append(grabs, grab{b.Keysym, b.Modifiers})
	}
	if r.isModal {
		for _, ks := range modalKeysyms() {
			grabs = append(grabs, grab{ks, NoModifier})
		}
	}
	for _, g := range grabs {
		codes, err := r.bk.ResolveKeycodes(g.keysym)
		if err != nil {
			return err
		}
		for _, code := range codes {
			if err := r.bk.GrabKey(root, g.mods, code); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run drives the event loop until a binding calls Quit, or src/backend
// report a fatal error. It polls src's fd with a fixed timeout so
// RefreshStatus fires on a steady cadence even while idle.
func (r *Router) Run(src Source) error {
	pfd := []unix.PollFd{{Fd: int32(src.FD()), Events: unix.POLLIN}}

	for !r.quit {
		_, err := unix.Poll(pfd, pollInterval)
		if err != nil && err != unix.EINTR {
			return err
		}

		for {
			ev, ok, err := src.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if err := r.Dispatch(ev); err != nil {
				return err
			}
		}

		if err := r.eng.RefreshStatus(); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch classifies and handles a single event, mirroring event.c's
// event_loop switch and on_* handlers. Unrecognised kinds are logged
// and dropped.
func (r *Router) Dispatch(ev Event) error {
	switch ev.Kind {
	case KeyPress:
		return r.handleKey(ev.Root, ev.Keycode, ev.Modifiers)

	case CreateNotify:
		if _, ok := r.eng.Lookup(ev.Window); !ok {
			_, err := r.eng.ClientAttach(ev.Parent, ev.Window)
			return err
		}
		return nil

	case DestroyNotify:
		return r.eng.ClientDetach(ev.Window)

	case MapRequest:
		// A window not yet tracked as a client is mapped as-is; once
		// create_notify attaches it, later operations keep it in sync.
		return r.bk.Map(ev.Window)

	case ConfigureNotify:
		return r.eng.WindowResized(ev.Window)

	case EnterNotify:
		// Spec: fires only when the event's own window happens to be a
		// tile handle; TileSetActive already no-ops for anything else.
		return r.eng.TileSetActive(ev.Window)

	default:
		r.log.Warnf("received unhandled event kind %d", ev.Kind)
		return nil
	}
}

// Quit stops Run after the current tick. Bound to the quit action in
// every profile.
func (r *Router) Quit() error {
	r.quit = true
	return nil
}
