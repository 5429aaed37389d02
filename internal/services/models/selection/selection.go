// Package selection resolves which variant parts to render and drives the
// variant picker shared by hero costumes and boss forms.
package selection

import "github.com/louisbranch/herowiki/internal/services/models/catalog"

// Resolution is the outcome of a variant selection.
type Resolution struct {
	// Requested is the key the caller asked for.
	Requested string
	// Key is the variant actually rendered; empty when nothing renders.
	Key string
	// Fallback is set when Key differs from Requested because Requested was
	// not in the catalog.
	Fallback bool
	// Loading is set when models are still loading.
	Loading bool
	Parts   []catalog.ModelWithTextures
}

// FallbackToFirstKey returns key when the catalog holds it, otherwise the
// catalog's first key. It reports false when the catalog is nil or empty.
func FallbackToFirstKey(c *catalog.Catalog, key string) (string, bool) {
	if c.Has(key) {
		return key, true
	}
	return c.FirstKey()
}

// Resolve applies the selection policy: loading and missing catalogs render
// nothing, a known key renders its variant, and an unknown key falls back to
// the first variant.
func Resolve(c *catalog.Catalog, key string, loading bool) Resolution {
	res := Resolution{Requested: key, Loading: loading, Parts: []catalog.ModelWithTextures{}}
	if loading || c == nil {
		return res
	}
	resolved, ok := FallbackToFirstKey(c, key)
	if !ok {
		return res
	}
	variant, _ := c.Lookup(resolved)
	res.Key = resolved
	res.Fallback = resolved != key
	res.Parts = variant.Parts
	return res
}

// Select returns the ordered parts to render for key.
func Select(c *catalog.Catalog, key string, loading bool) []catalog.ModelWithTextures {
	return Resolve(c, key, loading).Parts
}
