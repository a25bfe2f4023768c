package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/halcyon-sec/attackrag/internal/adapters/driving/cli"
)

func main() {
	// First interrupt cancels the context so in-flight work can stop
	// cleanly; a second interrupt kills the process outright.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
