// Package main starts the models HTTP service process lifecycle.
package main

import (
	"flag"
	"log"
	"os"

	modelscmd "github.com/louisbranch/herowiki/internal/cmd/models"
	entrypoint "github.com/louisbranch/herowiki/internal/platform/cmd"
	"github.com/louisbranch/herowiki/internal/platform/config"
)

func main() {
	cfg, err := modelscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)
	log.SetPrefix("[MODELS] ")
	ctx, stop := entrypoint.SignalContext()
	defer stop()

	config.ExitOnError("serve models", modelscmd.Run(ctx, cfg))
}
