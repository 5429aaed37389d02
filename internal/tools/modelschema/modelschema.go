// Package modelschema generates the JSON schema editors use to validate
// hand-authored model files.
package modelschema

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/louisbranch/herowiki/internal/services/models/catalog"
)

// Config holds configuration for the schema generator.
type Config struct {
	OutPath string
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.OutPath, "out", "", "path to write the JSON schema")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.OutPath) == "" {
		return Config{}, errors.New("out is required")
	}
	return cfg, nil
}

// Run writes the schema to cfg.OutPath.
func Run(cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if err := Write(cfg.OutPath, Build()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "wrote model file schema to %s\n", cfg.OutPath)
	return err
}

// Build reflects the model file shape. Unknown part fields are allowed since
// the loader ignores them.
func Build() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(catalog.RawFile))
	schema.Title = "Hero wiki model file"
	schema.Description = "Variant key to ordered part descriptors, stored under models/heroes and models/bosses"
	return schema
}

// Write replaces outPath with the indented schema.
func Write(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
