// Package models parses models service flags and launches the service.
package models

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/herowiki/internal/platform/cmd"
	server "github.com/louisbranch/herowiki/internal/services/models/app"
)

// Config holds models command configuration.
type Config struct {
	Addr       string `env:"HEROWIKI_MODELS_HTTP_ADDR" envDefault:":8095"`
	DataDir    string `env:"HEROWIKI_DATA_DIR" envDefault:"data/lake"`
	DBPath     string `env:"HEROWIKI_MODELS_DB_PATH"`
	LabelsPath string `env:"HEROWIKI_LABELS_PATH"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "http-addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "raw data lake directory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "imported models database; overrides -data-dir when set")
	fs.StringVar(&cfg.LabelsPath, "labels", cfg.LabelsPath, "optional YAML file with display name overrides")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the models HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceModels, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:       cfg.Addr,
			DataDir:    cfg.DataDir,
			DBPath:     cfg.DBPath,
			LabelsPath: cfg.LabelsPath,
		})
	})
}
