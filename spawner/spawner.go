// Package spawner launches the external programs a keybinding can ask
// for — a terminal, or a demo client — detached from the window
// manager's own process tree. Grounded on wm.c's wm_run_terminal and
// wm_run_xeyes, which fork+exec a fixed argv and never wait for the
// child.
package spawner

import "os/exec"

// Spawner starts a detached external process. A failure to start is
// logged and dropped by the caller; it is never fatal to the window
// manager itself, matching wm_run_terminal's warn-and-return on a
// failed fork.
type Spawner interface {
	RunTerminal() error
	RunXeyes() error
}

// OS spawns real processes via os/exec, inheriting the window manager's
// environment (in particular $DISPLAY) so the child appears on the same
// X server.
type OS struct{}

// New returns a Spawner that launches real system processes.
func New() OS {
	return OS{}
}

func (OS) RunTerminal() error {
	return start("xterm", "-fg", "white", "-bg", "black")
}

func (OS) RunXeyes() error {
	return start("xeyes")
}

func start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	return cmd.Start()
}
