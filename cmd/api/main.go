// Package main starts the REST API process lifecycle.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	apicmd "github.com/louisbranch/xplorehub/internal/cmd/api"
	"github.com/louisbranch/xplorehub/internal/platform/config"
)

func main() {
	cfg, err := apicmd.ParseConfig(pflag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := apicmd.Run(ctx, cfg); err != nil {
		config.Exitf("api: %v", err)
	}
}
