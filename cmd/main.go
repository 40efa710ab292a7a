// Package main provides the CLI entrypoint for passive. It wires the gather
// root command and the merge subcommand, loads configuration, and initializes
// logging.
package main

import (
	"context"
	"os"
	"os/signal"
	"passive/pkg/logger"
	"syscall"

	"go.uber.org/zap"
)

// main runs the root command under a context canceled by SIGINT or SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	err := newRootCommand().ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
