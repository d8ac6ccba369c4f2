package x11

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/router"
)

// FD implements router.Source. xgb has no public accessor for its
// connection socket, and WaitForEvent has no timeout parameter to poll
// against directly — pumpEvents drains it in the background and pings
// this self-pipe's write end for every translated event, so the read
// end doubles as a pollable readiness signal for the router's
// unix.Poll loop.
func (b *Backend) FD() int {
	return int(b.wakeRead.Fd())
}

// Next implements router.Source. It returns the next queued event, if
// any, and drains the self-pipe byte pumpEvents wrote for it; with no
// event queued it returns ok=false without blocking. pumpEvents has
// already translated the event by the time it reaches here.
func (b *Backend) Next() (router.Event, bool, error) {
	select {
	case ev := <-b.events:
		var buf [1]byte
		if _, err := b.wakeRead.Read(buf[:]); err != nil {
			return router.Event{}, false, err
		}
		return ev, true, nil
	default:
		return router.Event{}, false, nil
	}
}

// translateEvent turns the handful of event types the layout engine
// acts on (event.c's on_key_press, on_create_notify, on_destroy_notify,
// on_map_request, on_configure_notify, on_enter_notify) into a
// router.Event; anything else is dropped before it ever reaches the
// router, rather than surfacing as router.Unknown on every keystroke's
// neighboring noise events.
func translateEvent(raw xgb.Event) (router.Event, bool) {
	switch ev := raw.(type) {
	case xproto.KeyPressEvent:
		return router.Event{
			Kind:      router.KeyPress,
			Root:      backend.WindowID(ev.Root),
			Keycode:   uint8(ev.Detail),
			Modifiers: ev.State,
		}, true

	case xproto.CreateNotifyEvent:
		return router.Event{
			Kind:   router.CreateNotify,
			Window: backend.WindowID(ev.Window),
			Parent: backend.WindowID(ev.Parent),
		}, true

	case xproto.DestroyNotifyEvent:
		return router.Event{
			Kind:   router.DestroyNotify,
			Window: backend.WindowID(ev.Window),
		}, true

	case xproto.MapRequestEvent:
		return router.Event{
			Kind:   router.MapRequest,
			Root:   backend.WindowID(ev.Parent),
			Window: backend.WindowID(ev.Window),
		}, true

	case xproto.ConfigureNotifyEvent:
		return router.Event{
			Kind:   router.ConfigureNotify,
			Window: backend.WindowID(ev.Window),
		}, true

	case xproto.EnterNotifyEvent:
		return router.Event{
			Kind:   router.EnterNotify,
			Root:   backend.WindowID(ev.Root),
			Window: backend.WindowID(ev.Event),
		}, true

	default:
		return router.Event{}, false
	}
}
