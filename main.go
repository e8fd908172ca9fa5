package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"swscroll/internal/cli"
)

func main() {
	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
