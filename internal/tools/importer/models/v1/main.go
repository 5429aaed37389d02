// Package modelimporter validates the raw model data lake and imports every
// entity catalog into the models SQLite store.
package modelimporter

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/herowiki/internal/services/models/entity"
	"github.com/louisbranch/herowiki/internal/services/models/loader"
	"github.com/louisbranch/herowiki/internal/services/models/storage"
	modelsqlite "github.com/louisbranch/herowiki/internal/services/models/storage/sqlite"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Config holds configuration for the model importer.
type Config struct {
	Dir         string
	DBPath      string
	LabelsPath  string
	DryRun      bool
	Prune       bool
	Concurrency int
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath:      filepath.Join("data", "models.db"),
		Concurrency: defaultConcurrency,
	}

	fs.StringVar(&cfg.Dir, "dir", "", "data lake directory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "models database path")
	fs.StringVar(&cfg.LabelsPath, "labels", "", "optional YAML file with display name overrides")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	fs.BoolVar(&cfg.Prune, "prune", false, "delete stored entities that are no longer in the data lake")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "entities built in parallel")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, errors.New("dir is required")
	}
	if cfg.Concurrency < 1 {
		return Config{}, errors.New("concurrency must be at least 1")
	}
	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return errors.New("dir is required")
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	w := &syncWriter{w: out}

	labels, err := loader.LoadLabels(cfg.LabelsPath)
	if err != nil {
		return err
	}
	lake, err := loader.OpenLake(cfg.Dir, labels)
	if err != nil {
		return err
	}
	lake.WithLogf(func(format string, args ...any) {
		w.printf("warning: "+format+"\n", args...)
	})

	var store storage.ModelStore
	if !cfg.DryRun {
		modelStore, err := openModelStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer modelStore.Close()
		store = modelStore
	}

	refs, err := listRefs(ctx, lake)
	if err != nil {
		return err
	}

	var issues atomic.Int64
	// Builds run in parallel; SQLite takes one writer at a time.
	var writeMu sync.Mutex
	now := time.Now().UTC()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			entry, err := lake.Entity(gctx, ref)
			if err != nil {
				return fmt.Errorf("build %s: %w", ref, err)
			}
			issues.Add(int64(len(entry.Issues)))
			if store == nil {
				return nil
			}
			record := storage.EntityRecord{
				Info:       entry.Info,
				Variants:   entry.Catalog.Variants(),
				Issues:     entry.Issues,
				ImportedAt: now,
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := store.PutEntity(gctx, record); err != nil {
				return fmt.Errorf("import %s: %w", ref, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	heroes, bosses := countKinds(refs)
	summary := fmt.Sprintf("%d hero(es), %d boss(es), %d issue(s)", heroes, bosses, issues.Load())
	if cfg.DryRun {
		w.printf("validated %s\n", summary)
		return w.err
	}

	if cfg.Prune {
		pruned, err := prune(ctx, store, refs)
		if err != nil {
			return err
		}
		if pruned > 0 {
			w.printf("pruned %d stale entit(ies)\n", pruned)
		}
	}
	w.printf("imported %s into %s\n", summary, cfg.DBPath)
	return w.err
}

func listRefs(ctx context.Context, source loader.Source) ([]entity.Ref, error) {
	var refs []entity.Ref
	for _, kind := range entity.Kinds() {
		ids, err := source.Entities(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", kind.Dir(), err)
		}
		for _, id := range ids {
			refs = append(refs, entity.Ref{Kind: kind, ID: id})
		}
	}
	if len(refs) == 0 {
		return nil, errors.New("no model files found")
	}
	return refs, nil
}

func countKinds(refs []entity.Ref) (heroes, bosses int) {
	for _, ref := range refs {
		if ref.Kind == entity.KindBoss {
			bosses++
		} else {
			heroes++
		}
	}
	return heroes, bosses
}

// prune deletes stored entities missing from refs.
func prune(ctx context.Context, store storage.ModelStore, refs []entity.Ref) (int, error) {
	pruned := 0
	for _, kind := range entity.Kinds() {
		stored, err := store.ListEntities(ctx, kind)
		if err != nil {
			return pruned, fmt.Errorf("list stored %s: %w", kind.Dir(), err)
		}
		for _, id := range stored {
			ref := entity.Ref{Kind: kind, ID: id}
			if slices.Contains(refs, ref) {
				continue
			}
			if err := store.DeleteEntity(ctx, ref); err != nil {
				return pruned, fmt.Errorf("prune %s: %w", ref, err)
			}
			pruned++
		}
	}
	return pruned, nil
}

func openModelStore(path string) (*modelsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := modelsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	return store, nil
}

// syncWriter serializes output from concurrent builds and keeps the first
// write error.
type syncWriter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}
