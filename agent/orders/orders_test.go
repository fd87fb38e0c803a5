package orders

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"

	contractx "github.com/robocare/support-agent/agent/contract"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(Config{Path: filepath.Join(t.TempDir(), "orders.db")})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	return store
}

func TestConfigDefaultsSurviveHostEnvironment(t *testing.T) {
	// Tag names must not collide with variables every shell exports.
	t.Setenv("PATH", "/usr/local/bin:/usr/bin:/bin")

	var cfg Config
	if err := envconfig.Process("ORDERS", &cfg); err != nil {
		t.Fatalf("process config: %v", err)
	}
	if cfg.Path != "orders.db" {
		t.Fatalf("Path = %q, want orders.db", cfg.Path)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Fatalf("BusyTimeout = %v, want 5s", cfg.BusyTimeout)
	}
}

func TestCreateThenGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	order, err := store.Create(ctx, "jan", "welder-bot", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(order.OrderID) != 8 {
		t.Fatalf("expected 8-character order id, got %q", order.OrderID)
	}
	if order.Status != StatusCreated {
		t.Fatalf("expected status %q, got %q", StatusCreated, order.Status)
	}

	got, found, err := store.Get(ctx, order.OrderID, "jan")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected order to be found")
	}
	if got.Item != "welder-bot" || got.Quantity != 2 || got.Status != StatusCreated {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, "", "welder-bot", 1); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error for empty username, got %v", err)
	}
	if _, err := store.Create(ctx, "jan", "", 1); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error for empty item, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, found, err := store.Get(context.Background(), "doesnotexist", "nobody")
	if err != nil {
		t.Fatalf("get must not error on missing rows: %v", err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestGetIsUsernameScoped(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	order, err := store.Create(ctx, "jan", "welder-bot", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, found, err := store.Get(ctx, order.OrderID, "piotr"); err != nil || found {
		t.Fatalf("expected miss for wrong username, found=%v err=%v", found, err)
	}
	// Exact case-sensitive match only.
	if _, found, err := store.Get(ctx, order.OrderID, "Jan"); err != nil || found {
		t.Fatalf("expected miss for case-mismatched username, found=%v err=%v", found, err)
	}
}

func TestCancelLifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	order, err := store.Create(ctx, "jan", "welder-bot", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	matched, err := store.Cancel(ctx, order.OrderID, "jan")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !matched {
		t.Fatal("expected cancel to match the row")
	}

	got, found, err := store.Get(ctx, order.OrderID, "jan")
	if err != nil || !found {
		t.Fatalf("get after cancel: found=%v err=%v", found, err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("expected status %q, got %q", StatusCancelled, got.Status)
	}

	// Second cancel still matches and leaves the status unchanged.
	matched, err = store.Cancel(ctx, order.OrderID, "jan")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if !matched {
		t.Fatal("expected second cancel to match")
	}
	got, _, err = store.Get(ctx, order.OrderID, "jan")
	if err != nil {
		t.Fatalf("get after second cancel: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status drifted after second cancel: %q", got.Status)
	}
}

func TestCancelNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	matched, err := store.Cancel(context.Background(), "doesnotexist", "nobody")
	if err != nil {
		t.Fatalf("cancel must not error on missing rows: %v", err)
	}
	if matched {
		t.Fatal("expected no match")
	}
}

func TestConcurrentCreatesNeverCollide(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	const workers = 16
	const perWorker = 4

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)
	errs := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				order, err := store.Create(ctx, "jan", "welder-bot", 1)
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				seen[order.OrderID] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct order ids, got %d", workers*perWorker, len(seen))
	}
}

func TestConcurrentCancelsConverge(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	order, err := store.Create(ctx, "jan", "welder-bot", 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const cancellers = 8
	var wg sync.WaitGroup
	errs := make(chan error, cancellers)
	matches := make(chan bool, cancellers)

	for i := 0; i < cancellers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matched, err := store.Cancel(ctx, order.OrderID, "jan")
			if err != nil {
				errs <- err
				return
			}
			matches <- matched
		}()
	}
	wg.Wait()
	close(errs)
	close(matches)

	for err := range errs {
		t.Fatalf("concurrent cancel: %v", err)
	}

	anyMatched := false
	for m := range matches {
		anyMatched = anyMatched || m
	}
	if !anyMatched {
		t.Fatal("expected at least one cancel to match")
	}

	got, found, err := store.Get(ctx, order.OrderID, "jan")
	if err != nil || !found {
		t.Fatalf("get after cancels: found=%v err=%v", found, err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("expected deterministic %q status, got %q", StatusCancelled, got.Status)
	}
}
