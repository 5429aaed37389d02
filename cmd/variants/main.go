// Package main starts the interactive variant inspector.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	entrypoint "github.com/louisbranch/herowiki/internal/platform/cmd"
	"github.com/louisbranch/herowiki/internal/platform/config"
	"github.com/louisbranch/herowiki/internal/tools/variants"
)

func main() {
	cfg, err := variants.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)
	log.SetPrefix("[VARIANTS] ")
	ctx, stop := entrypoint.SignalContext()
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceVariants, func(ctx context.Context) error {
		return variants.Run(ctx, cfg, os.Stdin, os.Stdout)
	})
	config.ExitOnError("inspect variants", err)
}
