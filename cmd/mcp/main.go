// Package main starts the MCP server on stdio or HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	mcpcmd "github.com/louisbranch/xplorehub/internal/cmd/mcp"
	"github.com/louisbranch/xplorehub/internal/platform/config"
)

func main() {
	cfg, err := mcpcmd.ParseConfig(pflag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpcmd.Run(ctx, cfg); err != nil {
		config.Exitf("mcp: %v", err)
	}
}
