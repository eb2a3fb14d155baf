package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-otp-auth/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("otp-auth failed", "err", err)
		os.Exit(1)
	}
}
