package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/louisbranch/herowiki/internal/services/models/entity"
	"gopkg.in/yaml.v3"
)

// Labels overrides variant display names, keyed by entity id then variant
// key.
//
//	heroes:
//	  aria:
//	    winter_2023: Winter Wonderland
//	bosses:
//	  ignis:
//	    phase1: Smoldering Form
type Labels struct {
	Heroes map[string]map[string]string `yaml:"heroes"`
	Bosses map[string]map[string]string `yaml:"bosses"`
}

// LoadLabels reads a label override file. A blank path or a missing file
// yields no overrides.
func LoadLabels(path string) (Labels, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Labels{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Labels{}, nil
	}
	if err != nil {
		return Labels{}, fmt.Errorf("read labels: %w", err)
	}
	labels, err := ParseLabels(data)
	if err != nil {
		return Labels{}, fmt.Errorf("labels %s: %w", path, err)
	}
	return labels, nil
}

// ParseLabels decodes label overrides. Unknown top-level sections are
// rejected so a typo like "boss:" is not silently ignored.
func ParseLabels(data []byte) (Labels, error) {
	var labels Labels
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&labels); err != nil && !errors.Is(err, io.EOF) {
		return Labels{}, fmt.Errorf("parse labels: %w", err)
	}
	return labels, nil
}

// For returns the overrides for ref, or nil.
func (l Labels) For(ref entity.Ref) map[string]string {
	if ref.Kind == entity.KindBoss {
		return l.Bosses[ref.ID]
	}
	return l.Heroes[ref.ID]
}

// Len counts every override.
func (l Labels) Len() int {
	n := 0
	for _, byKey := range l.Heroes {
		n += len(byKey)
	}
	for _, byKey := range l.Bosses {
		n += len(byKey)
	}
	return n
}
