package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/louisbranch/herowiki/internal/platform/cmd"
	"github.com/louisbranch/herowiki/internal/platform/config"
	modelimporter "github.com/louisbranch/herowiki/internal/tools/importer/models/v1"
)

func main() {
	cfg, err := modelimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)
	log.SetPrefix("[MODEL-IMPORTER] ")

	ctx, stop := cmd.SignalContext()
	defer stop()
	err = cmd.RunWithTelemetry(ctx, cmd.ServiceModelImporter, func(ctx context.Context) error {
		return modelimporter.Run(ctx, cfg, os.Stdout)
	})
	config.ExitOnError("import models", err)
}
