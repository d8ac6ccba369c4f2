// Command fion is a minimal tiling window manager: it connects to an X
// server, lays out one screen's windows as a binary tree of tiles and
// workspaces, and drives the event loop that keeps the two in sync.
// Grounded on wm.c's main(), which does the same four things in the
// same order: connect, grab keys, register the screen, run the event
// loop.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/poolpOrg/fion/backend"
	"github.com/poolpOrg/fion/backend/x11"
	"github.com/poolpOrg/fion/internal/wmlog"
	"github.com/poolpOrg/fion/router"
	"github.com/poolpOrg/fion/spawner"
	"github.com/poolpOrg/fion/wm"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var (
		display = fs.String("display", "", "X display to connect to (default: $DISPLAY)")
		debug   = fs.Bool("d", false, "enable debug logging")
		modal   = fs.Bool("modal", false, "use the leader-key modal keybinding profile instead of the direct one")
	)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags]\n", os.Args[0])
		fs.PrintDefaults()
	}
	// flag.ContinueOnError hands the parse error back instead of letting
	// the stdlib print usage and os.Exit(2) itself: spec §6 requires exit
	// status 1 for any unrecognized flag, not the default's 2.
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 0 {
		fs.Usage()
		os.Exit(1)
	}

	log := wmlog.New()
	log.SetDebug(*debug)

	if err := run(*display, *modal, log); err != nil {
		fmt.Fprintln(os.Stderr, "fion:", err)
		os.Exit(1)
	}
}

func run(display string, modal bool, log *wmlog.Logger) error {
	bk, err := x11.Connect(display)
	if err != nil {
		return err
	}
	defer bk.Close()

	eng := wm.New(bk, log)

	bindings := router.DirectProfile()
	if modal {
		bindings = router.ModalProfile()
	}
	r := router.New(eng, bk, spawner.New(), log, bindings, modal)

	root := bk.RootWindow()
	if err := r.GrabKeys(root); err != nil {
		return err
	}

	width, height := bk.ScreenSize()
	screen := backend.Screen{
		Root:       root,
		Width:      width,
		Height:     height,
		RootVisual: bk.RootVisual(),
	}
	if _, err := eng.RegisterScreen(screen); err != nil {
		return err
	}
	if err := eng.RenderAll(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Debugf("received termination signal, shutting down")
		r.Quit()
	}()

	return r.Run(bk)
}
