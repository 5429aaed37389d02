// Package loader fetches entity model catalogs for the picker and viewer.
package loader

import (
	"context"

	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
)

// Entry is one loaded entity.
type Entry struct {
	Info    entity.Info
	Catalog *catalog.Catalog
	Issues  []catalog.Issue
}

// Source provides entity catalogs.
type Source interface {
	// Entities lists entity ids of kind in ascending order.
	Entities(ctx context.Context, kind entity.Kind) ([]string, error)
	// Entity loads one entity. A missing entity is an ENTITY_NOT_FOUND
	// domain error.
	Entity(ctx context.Context, ref entity.Ref) (Entry, error)
}
