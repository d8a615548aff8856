// Package main fills the XploreHub database with fixtures or AI generated
// events.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	seedcmd "github.com/louisbranch/xplorehub/internal/cmd/seed"
	"github.com/louisbranch/xplorehub/internal/platform/config"
)

func main() {
	cfg, err := seedcmd.ParseConfig()
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedcmd.Execute(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		config.Exitf("seed: %v", err)
	}
}
