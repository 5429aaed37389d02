// Package catalog builds and serves the per-entity variant catalog: variant
// keys in source order, each holding the ordered parts that render it.
package catalog

import (
	"slices"
	"strings"

	"github.com/louisbranch/herowiki/internal/services/models/naming"
	"github.com/louisbranch/herowiki/internal/services/models/parts"
)

// ModelFile is one model asset inside a variant.
type ModelFile struct {
	Name string     `json:"name"`
	Path string     `json:"path"`
	Type parts.Type `json:"type"`
}

// ModelWithTextures is a model file with its bound textures; the unit handed
// to the 3D viewer.
type ModelWithTextures struct {
	ModelFile
	Textures parts.TextureSet `json:"textures"`
}

// Variant is one selectable costume or boss form.
type Variant struct {
	Name        string
	Path        string
	DisplayName string
	// Labeled is set when DisplayName came from a label override rather than
	// the formatter.
	Labeled bool
	Parts   []ModelWithTextures
}

// Option is one picker entry.
type Option struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
}

// Catalog maps variant keys to variants for one entity.
//
// A Catalog is immutable once built; accessors hand out copies. A nil
// *Catalog means the entity's models have not been built yet.
type Catalog struct {
	keys     []string
	variants map[string]Variant
}

// FromVariants assembles a catalog from already-built variants, keeping the
// given order. Blank and repeated keys are skipped.
func FromVariants(variants []Variant) *Catalog {
	c := &Catalog{variants: make(map[string]Variant, len(variants))}
	for _, variant := range variants {
		key := variant.Name
		if strings.TrimSpace(key) == "" {
			continue
		}
		if _, exists := c.variants[key]; exists {
			continue
		}
		variant.Parts = cloneParts(variant.Parts)
		c.keys = append(c.keys, key)
		c.variants[key] = variant
	}
	return c
}

// Len returns the number of variants.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the variant keys in insertion order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// Lookup returns the variant stored under key.
func (c *Catalog) Lookup(key string) (Variant, bool) {
	if c == nil {
		return Variant{}, false
	}
	variant, ok := c.variants[key]
	if !ok {
		return Variant{}, false
	}
	variant.Parts = cloneParts(variant.Parts)
	return variant, true
}

// Has reports whether key names a variant.
func (c *Catalog) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.variants[key]
	return ok
}

// FirstKey returns the first key in insertion order.
func (c *Catalog) FirstKey() (string, bool) {
	if c == nil || len(c.keys) == 0 {
		return "", false
	}
	return c.keys[0], true
}

// Variants returns every variant in insertion order.
func (c *Catalog) Variants() []Variant {
	if c == nil {
		return nil
	}
	out := make([]Variant, 0, len(c.keys))
	for _, key := range c.keys {
		variant := c.variants[key]
		variant.Parts = cloneParts(variant.Parts)
		out = append(out, variant)
	}
	return out
}

// Options lists the picker entries in catalog order.
func Options(c *Catalog) []Option {
	if c == nil {
		return []Option{}
	}
	out := make([]Option, 0, len(c.keys))
	for _, key := range c.keys {
		out = append(out, Option{Key: key, DisplayName: c.variants[key].DisplayName})
	}
	return out
}

// DisplayNameFunc returns a formatter that keeps label overrides stored in the
// catalog and formats every other key with format.
func DisplayNameFunc(c *Catalog, format naming.Formatter) naming.Formatter {
	if format == nil {
		format = naming.Normalize
	}
	return func(key string) string {
		if c != nil {
			if variant, ok := c.variants[key]; ok && variant.Labeled {
				return variant.DisplayName
			}
		}
		return format(key)
	}
}

func cloneParts(in []ModelWithTextures) []ModelWithTextures {
	if in == nil {
		return []ModelWithTextures{}
	}
	return slices.Clone(in)
}
