package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Addr    string `env:"HEROWIKI_TEST_ADDR" envDefault:":8095"`
	DataDir string `env:"HEROWIKI_TEST_DATA_DIR" envDefault:"data/lake"`
	Workers int    `env:"HEROWIKI_TEST_WORKERS" envDefault:"4"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != ":8095" || cfg.DataDir != "data/lake" || cfg.Workers != 4 {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("HEROWIKI_TEST_DATA_DIR", "/srv/lake")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DataDir != "/srv/lake" {
		t.Fatalf("DataDir = %q, want /srv/lake", cfg.DataDir)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("HEROWIKI_TEST_WORKERS", "many")

	var cfg envTestConfig
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvFrom(t *testing.T) {
	t.Parallel()

	var cfg envTestConfig
	if err := ParseEnvFrom(&cfg, map[string]string{"HEROWIKI_TEST_ADDR": "127.0.0.1:9000"}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.Workers != 4 {
		t.Fatalf("cfg = %+v", cfg)
	}

	if err := ParseEnvFrom(&cfg, map[string]string{"HEROWIKI_TEST_WORKERS": "x"}); err == nil {
		t.Fatal("expected error")
	}
}
