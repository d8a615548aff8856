// Package main starts the web frontend process lifecycle.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	webcmd "github.com/louisbranch/xplorehub/internal/cmd/web"
	"github.com/louisbranch/xplorehub/internal/platform/config"
)

func main() {
	cfg, err := webcmd.ParseConfig(pflag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := webcmd.Run(ctx, cfg); err != nil {
		config.Exitf("web: %v", err)
	}
}
