// Package storage defines persistence contracts for imported model catalogs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
)

// ErrNotFound indicates a requested entity record is missing.
var ErrNotFound = errors.New("record not found")

// EntityRecord is one imported entity with its built catalog.
type EntityRecord struct {
	Info entity.Info
	// Variants are stored in catalog order.
	Variants   []catalog.Variant
	Issues     []catalog.Issue
	ImportedAt time.Time
}

// ModelStore persists imported entities. PutEntity replaces every stored
// row of the entity at once.
type ModelStore interface {
	PutEntity(ctx context.Context, record EntityRecord) error
	GetEntity(ctx context.Context, ref entity.Ref) (EntityRecord, error)
	ListEntities(ctx context.Context, kind entity.Kind) ([]string, error)
	DeleteEntity(ctx context.Context, ref entity.Ref) error
}
