package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storepilot/internal/transport/cli"
	"storepilot/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	slog.SetDefault(logx.NewLogger(os.Stderr, os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL")))

	code := cli.Execute(ctx)

	cancel()
	os.Exit(code)
}
