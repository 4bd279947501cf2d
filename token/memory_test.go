package token

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	got, err := store.Get(ctx)
	if err != nil || got != "" {
		t.Fatalf("empty store Get = %q, %v", got, err)
	}

	if err := store.Set(ctx, "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ = store.Get(ctx)
	if got != "tok-1" {
		t.Fatalf("Get after Set = %q", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ = store.Get(ctx)
	if got != "" {
		t.Fatalf("Get after Clear = %q", got)
	}

	// Clearing an already empty store is a no-op, not an error.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestMemorySetEmptyIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	store.Set(ctx, "tok-1")

	var fired bool
	stop, err := store.Watch(ctx, func(Change) { fired = true })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	if err := store.Set(ctx, ""); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	if got, _ := store.Get(ctx); got != "tok-1" {
		t.Fatalf("empty Set overwrote token: %q", got)
	}
	if fired {
		t.Fatal("empty Set notified watchers")
	}
}

func TestMemoryWatchFanout(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	var mu sync.Mutex
	var a, b []Change
	stopA, _ := store.Watch(ctx, func(c Change) {
		mu.Lock()
		a = append(a, c)
		mu.Unlock()
	})
	stopB, _ := store.Watch(ctx, func(c Change) {
		mu.Lock()
		b = append(b, c)
		mu.Unlock()
	})
	defer stopB()

	store.Set(ctx, "tok-1")
	store.Clear(ctx)

	mu.Lock()
	if len(a) != 2 || len(b) != 2 {
		mu.Unlock()
		t.Fatalf("fanout counts a=%d b=%d, want 2 each", len(a), len(b))
	}
	if !a[0].Present || a[0].Token != "tok-1" {
		mu.Unlock()
		t.Fatalf("first change = %+v", a[0])
	}
	if a[1].Present || a[1].Token != "" {
		mu.Unlock()
		t.Fatalf("second change = %+v", a[1])
	}
	mu.Unlock()

	// A stopped watcher sees nothing further.
	stopA()
	store.Set(ctx, "tok-2")
	mu.Lock()
	defer mu.Unlock()
	if len(a) != 2 {
		t.Fatalf("stopped watcher received %d changes", len(a))
	}
	if len(b) != 3 {
		t.Fatalf("live watcher received %d changes, want 3", len(b))
	}
}

func TestMemoryWatchStopReleasesGoroutine(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := runtime.NumGoroutine()
	stops := make([]func(), 0, 50)
	for i := 0; i < 50; i++ {
		// Cancellable context that is never cancelled: stop alone must
		// release the watch, goroutine included.
		stop, err := store.Watch(ctx, func(Change) {})
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
		stops = append(stops, stop)
	}
	for _, stop := range stops {
		stop()
		stop() // idempotent
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before+5 {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines: %d before, %d after stop", before, runtime.NumGoroutine())
		}
		time.Sleep(10 * time.Millisecond)
	}

	store.mu.Lock()
	left := len(store.watchers)
	store.mu.Unlock()
	if left != 0 {
		t.Fatalf("%d watchers still registered", left)
	}
}

func TestMemoryWatchStopsOnContextCancel(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())

	fired := make(chan Change, 4)
	if _, err := store.Watch(ctx, func(c Change) { fired <- c }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	store.Set(context.Background(), "tok-1")
	<-fired

	cancel()
	// Cancellation unsubscribes asynchronously; poll until it lands.
	deadline := time.Now().Add(2 * time.Second)
	for {
		store.mu.Lock()
		n := len(store.watchers)
		store.mu.Unlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("watcher still registered after cancel (%d left)", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
