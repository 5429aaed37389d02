package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/herowiki/internal/platform/errors"
	"github.com/louisbranch/herowiki/internal/platform/otel"
	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const modelsDir = "models"

var tracer = otel.Tracer("models/loader")

// LakeSource reads entities straight from the raw data lake:
//
//	heroes/<id>.json, bosses/<id>.json          entity info (optional)
//	models/heroes/<id>.json, models/bosses/<id>.json  variant catalogs
type LakeSource struct {
	fsys   fs.FS
	labels Labels
	logf   func(format string, args ...any)
}

// NewLakeSource reads the lake rooted at fsys.
func NewLakeSource(fsys fs.FS, labels Labels) *LakeSource {
	return &LakeSource{fsys: fsys, labels: labels, logf: log.Printf}
}

// OpenLake reads the lake rooted at dir.
func OpenLake(dir string, labels Labels) (*LakeSource, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", dir)
	}
	return NewLakeSource(os.DirFS(dir), labels), nil
}

// WithLogf replaces the issue logger.
func (s *LakeSource) WithLogf(logf func(format string, args ...any)) *LakeSource {
	if logf != nil {
		s.logf = logf
	}
	return s
}

// Entities lists the model file stems for kind.
func (s *LakeSource) Entities(ctx context.Context, kind entity.Kind) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(s.fsys, path.Join(modelsDir, kind.Dir()))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "list "+kind.Dir(), err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || !entity.ValidID(id) {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Entity reads and builds one entity's catalog.
func (s *LakeSource) Entity(ctx context.Context, ref entity.Ref) (Entry, error) {
	ctx, span := tracer.Start(ctx, "LakeSource.Entity")
	defer span.End()
	span.SetAttributes(
		attribute.String("entity.kind", string(ref.Kind)),
		attribute.String("entity.id", ref.ID),
	)

	entry, err := s.entity(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Entry{}, err
	}
	span.SetAttributes(
		attribute.Int("catalog.variants", entry.Catalog.Len()),
		attribute.Int("catalog.issues", len(entry.Issues)),
	)
	return entry, nil
}

func (s *LakeSource) entity(ctx context.Context, ref entity.Ref) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	meta := map[string]string{"Kind": string(ref.Kind), "ID": ref.ID}
	if !entity.ValidID(ref.ID) {
		return Entry{}, apperrors.WithMetadata(apperrors.CodeEntityIDInvalid, "invalid entity id "+ref.ID, meta)
	}

	modelData, err := fs.ReadFile(s.fsys, modelPath(ref))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, apperrors.WithMetadata(apperrors.CodeEntityNotFound, ref.String()+" not found", meta)
	}
	if err != nil {
		return Entry{}, apperrors.WrapWithMetadata(apperrors.CodeStorageUnavailable, "read models for "+ref.String(), meta, err)
	}
	raw, err := catalog.DecodeRaw(modelData)
	if err != nil {
		return Entry{}, apperrors.WrapWithMetadata(apperrors.CodeCatalogDecodeFailed, "decode models for "+ref.String(), meta, err)
	}

	info, err := s.info(ref)
	if err != nil {
		return Entry{}, apperrors.WrapWithMetadata(apperrors.CodeEntityInfoDecodeFailed, "decode info for "+ref.String(), meta, err)
	}

	c, issues := catalog.Build(raw, catalog.BuildOptions{
		Entity:    ref.String(),
		AssetRoot: info.ModelRoot,
		Format:    ref.Kind.Formatter(),
		Labels:    s.labels.For(ref),
		Logf:      s.logf,
	})
	return Entry{Info: info, Catalog: c, Issues: issues}, nil
}

// info reads the optional info record; a missing one falls back to the id.
func (s *LakeSource) info(ref entity.Ref) (entity.Info, error) {
	data, err := fs.ReadFile(s.fsys, infoPath(ref))
	if errors.Is(err, fs.ErrNotExist) {
		return entity.Fallback(ref), nil
	}
	if err != nil {
		return entity.Info{}, err
	}
	if recordID := entity.RecordID(data); recordID != "" && recordID != ref.ID {
		s.logf("load %s: info record names %q", ref, recordID)
	}
	return entity.DecodeInfo(ref, data)
}

func modelPath(ref entity.Ref) string {
	return path.Join(modelsDir, ref.Kind.Dir(), ref.ID+".json")
}

func infoPath(ref entity.Ref) string {
	return path.Join(ref.Kind.Dir(), ref.ID+".json")
}
