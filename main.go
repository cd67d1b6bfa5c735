package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/macrokeys/macrod/backends"
	"github.com/macrokeys/macrod/cli"
	"github.com/macrokeys/macrod/commands"
)

func main() {
	// create backend registry for cleanup tracking
	registry := backends.NewRegistry()
	commands.SetRegistry(registry)

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		// destroy any live injection backend before exiting; a virtual
		// device left behind would keep emitting its last state
		registry.CleanupAll()
		os.Exit(0)
	case err := <-done:
		registry.CleanupAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
