package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"opsnap/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	cli.ExecuteContext(ctx)
}
