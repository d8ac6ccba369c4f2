package router

import "github.com/poolpOrg/fion/backend"

// handleKey resolves a keycode to a keysym and dispatches it either
// straight to a direct binding, or through the modal mode/action state
// machine, depending on which profile the router was built with.
func (r *Router) handleKey(root backend.WindowID, keycode uint8, mods uint16) error {
	keysym, err := r.bk.ResolveKeysym(keycode, 0)
	if err != nil {
		return err
	}

	if r.mode != modeNone {
		return r.handleModalKey(root, keysym)
	}

	for _, b := range r.bindings {
		if b.Keysym == keysym && b.Modifiers == mods {
			if b.EntersMode != modeNone {
				r.mode = b.EntersMode
				return nil
			}
			return b.Action(r, root)
		}
	}
	return nil
}

// handleModalKey looks up keysym in the current mode's table and,
// whether or not it matches anything, returns the state machine to
// modeNone — a key that doesn't name an action in the current mode
// simply cancels it, rather than leaving the mode armed indefinitely
// (spec §6: "unknown non-leader keypresses also reset mode").
func (r *Router) handleModalKey(root backend.WindowID, keysym uint32) error {
	m := r.mode
	r.mode = modeNone
	action, ok := modalTable[m][keysym]
	if !ok {
		return nil
	}
	return action(r, root)
}

// modalKeysyms returns every keysym the modal profile must grab beyond
// its top-level Bindings: every action key reachable once inside a
// mode (the mode-entering chords themselves are already top-level
// Bindings and grabbed as such).
func modalKeysyms() []uint32 {
	seen := map[uint32]bool{}
	var out []uint32
	add := func(k uint32) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, table := range modalTable {
		for k := range table {
			add(k)
		}
	}
	return out
}
