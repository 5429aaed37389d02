package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/herowiki/internal/platform/errors"
	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
	"github.com/louisbranch/herowiki/internal/services/models/selection"
)

// gatedSource blocks each Entity call until its gate is released.
type gatedSource struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedSource(ids ...string) *gatedSource {
	src := &gatedSource{gates: map[string]chan struct{}{}}
	for _, id := range ids {
		src.gates[id] = make(chan struct{})
	}
	return src
}

func (s *gatedSource) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.gates[id])
}

func (s *gatedSource) Entities(context.Context, entity.Kind) ([]string, error) {
	return nil, nil
}

func (s *gatedSource) Entity(ctx context.Context, ref entity.Ref) (Entry, error) {
	s.mu.Lock()
	gate, ok := s.gates[ref.ID]
	s.mu.Unlock()
	if !ok {
		return Entry{}, apperrors.New(apperrors.CodeEntityNotFound, ref.String())
	}
	select {
	case <-gate:
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}
	c := catalog.FromVariants([]catalog.Variant{{Name: ref.ID + "_default"}})
	return Entry{Info: entity.Info{Kind: ref.Kind, ID: ref.ID, Name: "Loaded " + ref.ID}, Catalog: c}, nil
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSessionLoadingThenSettled(t *testing.T) {
	t.Parallel()

	src := newGatedSource("aria")
	session := NewSession(src)
	ref := entity.Ref{Kind: entity.KindHero, ID: "aria"}
	session.Open(context.Background(), ref)

	snap := session.Snapshot()
	if !snap.Loading || snap.Catalog != nil {
		t.Fatalf("snapshot while loading = %+v", snap)
	}
	if got := selection.Select(snap.Catalog, "winter", snap.Loading); len(got) != 0 {
		t.Fatalf("Select while loading = %v, want empty", got)
	}

	src.release("aria")
	snap, err := session.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if snap.Loading || snap.Err != nil || snap.Info.Name != "Loaded aria" {
		t.Fatalf("settled snapshot = %+v", snap)
	}
	if key, _ := snap.Catalog.FirstKey(); key != "aria_default" {
		t.Fatalf("first key = %q", key)
	}
}

func TestSessionLastEntityWins(t *testing.T) {
	t.Parallel()

	src := newGatedSource("aria", "bryn")
	session := NewSession(src)
	first := session.Open(context.Background(), entity.Ref{Kind: entity.KindHero, ID: "aria"})
	second := session.Open(context.Background(), entity.Ref{Kind: entity.KindHero, ID: "bryn"})
	if second != first+1 {
		t.Fatalf("generations = %d, %d", first, second)
	}

	src.release("bryn")
	snap, err := session.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if snap.Ref.ID != "bryn" || snap.Info.Name != "Loaded bryn" {
		t.Fatalf("snapshot = %+v, want bryn", snap)
	}

	// The superseded load was canceled; releasing it now changes nothing.
	src.release("aria")
	time.Sleep(10 * time.Millisecond)
	if got := session.Snapshot(); got.Ref.ID != "bryn" || got.Err != nil || got.Generation != second {
		t.Fatalf("snapshot after stale release = %+v", got)
	}
}

func TestSessionRecordsLoadError(t *testing.T) {
	t.Parallel()

	session := NewSession(newGatedSource())
	session.Open(context.Background(), entity.Ref{Kind: entity.KindBoss, ID: "zed"})
	snap, err := session.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if snap.Loading || apperrors.CodeOf(snap.Err) != apperrors.CodeEntityNotFound {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Info.Name != "Zed" {
		t.Fatalf("fallback info = %+v", snap.Info)
	}
}

func TestSessionWaitHonorsContext(t *testing.T) {
	t.Parallel()

	session := NewSession(newGatedSource("aria"))
	session.Open(context.Background(), entity.Ref{Kind: entity.KindHero, ID: "aria"})
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := session.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}
	if !snap.Loading {
		t.Fatalf("snapshot = %+v, want loading", snap)
	}
}

func TestSessionIdleWaitReturnsImmediately(t *testing.T) {
	t.Parallel()

	snap, err := NewSession(newGatedSource()).Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if snap.Generation != 0 || snap.Loading {
		t.Fatalf("idle snapshot = %+v", snap)
	}
}

func TestSessionCloseCancelsLoad(t *testing.T) {
	t.Parallel()

	session := NewSession(newGatedSource("aria"))
	session.Open(context.Background(), entity.Ref{Kind: entity.KindHero, ID: "aria"})
	session.Close()

	snap, err := session.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !errors.Is(snap.Err, context.Canceled) {
		t.Fatalf("snapshot err = %v, want context.Canceled", snap.Err)
	}
}
