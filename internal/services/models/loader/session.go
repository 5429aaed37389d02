package loader

import (
	"context"
	"sync"

	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
)

// Snapshot is the session state at one instant. Catalog is nil while
// Loading.
type Snapshot struct {
	Ref     entity.Ref
	Info    entity.Info
	Catalog *catalog.Catalog
	Issues  []catalog.Issue
	Loading bool
	Err     error
	// Generation increments on every Open.
	Generation uint64
}

// Session tracks the entity currently shown. Opening a new entity cancels
// the previous load and results of superseded loads are dropped, so the last
// opened entity always wins.
type Session struct {
	source Source

	mu     sync.Mutex
	snap   Snapshot
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession creates an idle session over source.
func NewSession(source Source) *Session {
	return &Session{source: source}
}

// Open starts loading ref and returns its generation.
func (s *Session) Open(ctx context.Context, ref entity.Ref) uint64 {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	gen := s.snap.Generation + 1
	s.cancel = cancel
	s.done = done
	s.snap = Snapshot{Ref: ref, Info: entity.Fallback(ref), Loading: true, Generation: gen}
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		entry, err := s.source.Entity(loadCtx, ref)
		s.settle(gen, entry, err)
	}()
	return gen
}

func (s *Session) settle(gen uint64, entry Entry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.snap.Generation {
		return
	}
	s.snap.Loading = false
	if err != nil {
		s.snap.Err = err
		return
	}
	s.snap.Info = entry.Info
	s.snap.Catalog = entry.Catalog
	s.snap.Issues = entry.Issues
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Wait blocks until the current load settles. A load superseded while
// waiting is followed to its replacement.
func (s *Session) Wait(ctx context.Context) (Snapshot, error) {
	for {
		s.mu.Lock()
		done := s.done
		gen := s.snap.Generation
		s.mu.Unlock()

		if done != nil {
			select {
			case <-done:
			case <-ctx.Done():
				return s.Snapshot(), ctx.Err()
			}
		}

		snap := s.Snapshot()
		if snap.Generation == gen {
			return snap, nil
		}
	}
}

// Close cancels any in-flight load.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
