// Package sqlite provides a SQLite-backed model catalog store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/herowiki/internal/platform/errors"
	"github.com/louisbranch/herowiki/internal/platform/otel"
	sqlitemigrate "github.com/louisbranch/herowiki/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
	"github.com/louisbranch/herowiki/internal/services/models/loader"
	"github.com/louisbranch/herowiki/internal/services/models/parts"
	"github.com/louisbranch/herowiki/internal/services/models/storage"
	"github.com/louisbranch/herowiki/internal/services/models/storage/sqlite/migrations"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("models/storage/sqlite")

// Store persists imported model catalogs in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite model store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutEntity replaces the entity, its variants, parts, and build issues in
// one transaction.
func (s *Store) PutEntity(ctx context.Context, record storage.EntityRecord) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	info := record.Info
	if _, err := entity.ParseKind(string(info.Kind)); err != nil {
		return err
	}
	if !entity.ValidID(info.ID) {
		return fmt.Errorf("invalid entity id %q", info.ID)
	}
	importedAt := record.ImportedAt
	if importedAt.IsZero() {
		importedAt = s.now()
	}

	ctx, span := tracer.Start(ctx, "Store.PutEntity")
	defer span.End()
	span.SetAttributes(
		attribute.String("entity.kind", string(info.Kind)),
		attribute.String("entity.id", info.ID),
		attribute.Int("catalog.variants", len(record.Variants)),
		attribute.Int("catalog.issues", len(record.Issues)),
	)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put entity: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := deleteEntityRows(ctx, tx, info.Kind, info.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO entities (kind, id, name, model_root, imported_at) VALUES (?, ?, ?, ?, ?)`,
		string(info.Kind),
		info.ID,
		info.Name,
		info.ModelRoot,
		toMillis(importedAt),
	); err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}

	for position, variant := range record.Variants {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO variants (kind, entity_id, position, variant_key, path, display_name, labeled)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(info.Kind),
			info.ID,
			position,
			variant.Name,
			variant.Path,
			variant.DisplayName,
			variant.Labeled,
		); err != nil {
			return fmt.Errorf("insert variant %q: %w", variant.Name, err)
		}
		for partPosition, part := range variant.Parts {
			if err := insertPart(ctx, tx, info, variant.Name, partPosition, part); err != nil {
				return err
			}
		}
	}

	for position, issue := range record.Issues {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO build_issues (kind, entity_id, position, variant_key, part_index, part_name, issue_kind, detail)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(info.Kind),
			info.ID,
			position,
			issue.Variant,
			issue.Index,
			issue.Part,
			string(issue.Kind),
			issue.Detail,
		); err != nil {
			return fmt.Errorf("insert build issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put entity: %w", err)
	}
	return nil
}

func insertPart(ctx context.Context, tx *sql.Tx, info entity.Info, variantKey string, position int, part catalog.ModelWithTextures) error {
	standard, _ := part.Textures.Standard()
	hair, _ := part.Textures.Hair()
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO parts (kind, entity_id, variant_key, position, name, path, part_type,
		                    diffuse, eye, wing, arm, hair, ornament)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(info.Kind),
		info.ID,
		variantKey,
		position,
		part.Name,
		part.Path,
		string(part.Type),
		standard.Diffuse,
		standard.Eye,
		standard.Wing,
		standard.Arm,
		hair.Hair,
		hair.Ornament,
	); err != nil {
		return fmt.Errorf("insert part %q of %q: %w", part.Name, variantKey, err)
	}
	return nil
}

// Child rows are deleted explicitly so replacement does not depend on the
// connection's foreign key setting.
func deleteEntityRows(ctx context.Context, tx *sql.Tx, kind entity.Kind, id string) error {
	for _, table := range []string{"build_issues", "parts", "variants", "entities"} {
		column := "entity_id"
		if table == "entities" {
			column = "id"
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE kind = ? AND "+column+" = ?", string(kind), id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// DeleteEntity removes one entity and everything stored under it.
func (s *Store) DeleteEntity(ctx context.Context, ref entity.Ref) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete entity: %w", err)
	}
	if err := deleteEntityRows(ctx, tx, ref.Kind, ref.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete entity: %w", err)
	}
	return nil
}

// ListEntities returns entity ids of kind in ascending order.
func (s *Store) ListEntities(ctx context.Context, kind entity.Kind) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id FROM entities WHERE kind = ? ORDER BY id ASC`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list entities: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return ids, nil
}

// GetEntity returns one stored entity with variants and parts in their
// original order.
func (s *Store) GetEntity(ctx context.Context, ref entity.Ref) (storage.EntityRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EntityRecord{}, err
	}

	var record storage.EntityRecord
	var kind string
	var importedAt int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT kind, id, name, model_root, imported_at
		   FROM entities
		  WHERE kind = ? AND id = ?`,
		string(ref.Kind),
		ref.ID,
	).Scan(&kind, &record.Info.ID, &record.Info.Name, &record.Info.ModelRoot, &importedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EntityRecord{}, storage.ErrNotFound
		}
		return storage.EntityRecord{}, fmt.Errorf("get entity: %w", err)
	}
	record.Info.Kind = entity.Kind(kind)
	record.ImportedAt = fromMillis(importedAt)

	partsByVariant, err := s.loadParts(ctx, ref)
	if err != nil {
		return storage.EntityRecord{}, err
	}
	if record.Variants, err = s.loadVariants(ctx, ref, partsByVariant); err != nil {
		return storage.EntityRecord{}, err
	}
	if record.Issues, err = s.loadIssues(ctx, ref); err != nil {
		return storage.EntityRecord{}, err
	}
	return record, nil
}

func (s *Store) loadVariants(ctx context.Context, ref entity.Ref, partsByVariant map[string][]catalog.ModelWithTextures) ([]catalog.Variant, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT variant_key, path, display_name, labeled
		   FROM variants
		  WHERE kind = ? AND entity_id = ?
		  ORDER BY position ASC`,
		string(ref.Kind),
		ref.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	defer rows.Close()

	variants := []catalog.Variant{}
	for rows.Next() {
		var variant catalog.Variant
		if err := rows.Scan(&variant.Name, &variant.Path, &variant.DisplayName, &variant.Labeled); err != nil {
			return nil, fmt.Errorf("load variants: %w", err)
		}
		variant.Parts = partsByVariant[variant.Name]
		if variant.Parts == nil {
			variant.Parts = []catalog.ModelWithTextures{}
		}
		variants = append(variants, variant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	return variants, nil
}

func (s *Store) loadParts(ctx context.Context, ref entity.Ref) (map[string][]catalog.ModelWithTextures, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT variant_key, name, path, part_type, diffuse, eye, wing, arm, hair, ornament
		   FROM parts
		  WHERE kind = ? AND entity_id = ?
		  ORDER BY variant_key ASC, position ASC`,
		string(ref.Kind),
		ref.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("load parts: %w", err)
	}
	defer rows.Close()

	out := map[string][]catalog.ModelWithTextures{}
	for rows.Next() {
		var (
			variantKey, rawType string
			part                catalog.ModelWithTextures
			standard            parts.StandardTextures
			hair                parts.HairTextures
		)
		if err := rows.Scan(
			&variantKey,
			&part.Name,
			&part.Path,
			&rawType,
			&standard.Diffuse,
			&standard.Eye,
			&standard.Wing,
			&standard.Arm,
			&hair.Hair,
			&hair.Ornament,
		); err != nil {
			return nil, fmt.Errorf("load parts: %w", err)
		}
		partType, ok := parts.ParseType(rawType)
		if !ok {
			return nil, fmt.Errorf("load parts: stored part %q has unknown type %q", part.Name, rawType)
		}
		part.Type = partType
		if parts.ClassifyTextureShape(partType) == parts.ShapeHair {
			part.Textures = parts.Hair(hair)
		} else {
			part.Textures = parts.Standard(standard)
		}
		out[variantKey] = append(out[variantKey], part)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load parts: %w", err)
	}
	return out, nil
}

func (s *Store) loadIssues(ctx context.Context, ref entity.Ref) ([]catalog.Issue, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT variant_key, part_index, part_name, issue_kind, detail
		   FROM build_issues
		  WHERE kind = ? AND entity_id = ?
		  ORDER BY position ASC`,
		string(ref.Kind),
		ref.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("load build issues: %w", err)
	}
	defer rows.Close()

	var issues []catalog.Issue
	for rows.Next() {
		issue := catalog.Issue{Entity: ref.String()}
		var kind string
		if err := rows.Scan(&issue.Variant, &issue.Index, &issue.Part, &kind, &issue.Detail); err != nil {
			return nil, fmt.Errorf("load build issues: %w", err)
		}
		issue.Kind = catalog.IssueKind(kind)
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load build issues: %w", err)
	}
	return issues, nil
}

// Entities lists stored entity ids for kind.
func (s *Store) Entities(ctx context.Context, kind entity.Kind) ([]string, error) {
	ids, err := s.ListEntities(ctx, kind)
	if err != nil && ctx.Err() == nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "list "+kind.Dir(), err)
	}
	return ids, err
}

// Entity serves a stored entity as a loaded catalog.
func (s *Store) Entity(ctx context.Context, ref entity.Ref) (loader.Entry, error) {
	ctx, span := tracer.Start(ctx, "Store.Entity")
	defer span.End()
	span.SetAttributes(
		attribute.String("entity.kind", string(ref.Kind)),
		attribute.String("entity.id", ref.ID),
	)

	record, err := s.GetEntity(ctx, ref)
	if err != nil {
		meta := map[string]string{"Kind": string(ref.Kind), "ID": ref.ID}
		switch {
		case errors.Is(err, storage.ErrNotFound):
			err = apperrors.WithMetadata(apperrors.CodeEntityNotFound, ref.String()+" not found", meta)
		case ctx.Err() == nil:
			err = apperrors.WrapWithMetadata(apperrors.CodeStorageUnavailable, "read "+ref.String(), meta, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return loader.Entry{}, err
	}

	c := catalog.FromVariants(record.Variants)
	span.SetAttributes(
		attribute.Int("catalog.variants", c.Len()),
		attribute.Int("catalog.issues", len(record.Issues)),
	)
	return loader.Entry{Info: record.Info, Catalog: c, Issues: record.Issues}, nil
}

var (
	_ storage.ModelStore = (*Store)(nil)
	_ loader.Source      = (*Store)(nil)
)
