package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clientpuzzle/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	err := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "puzzle: %v\n", err)
	}
	os.Exit(app.ExitCode(err))
}
