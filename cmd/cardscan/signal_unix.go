//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

func hangupSignals() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	return ch
}
