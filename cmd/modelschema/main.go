package main

import (
	"flag"
	"os"

	"github.com/louisbranch/herowiki/internal/platform/config"
	"github.com/louisbranch/herowiki/internal/tools/modelschema"
)

func main() {
	cfg, err := modelschema.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)
	config.ExitOnError("write schema", modelschema.Run(cfg, os.Stdout))
}
