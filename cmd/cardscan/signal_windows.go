//go:build windows

package main

import "os"

// hangupSignals returns a channel that never fires; Windows has no SIGHUP.
func hangupSignals() <-chan os.Signal {
	return nil
}
