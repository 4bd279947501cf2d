package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, ""), mr
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	got, err := store.Get(ctx)
	if err != nil || got != "" {
		t.Fatalf("empty Get = %q, %v", got, err)
	}

	if err := store.Set(ctx, "tok-redis"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := store.Get(ctx); got != "tok-redis" {
		t.Fatalf("Get = %q", got)
	}
	if v, err := mr.Get(DefaultKey); err != nil || v != "tok-redis" {
		t.Fatalf("raw key = %q, %v", v, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, _ := store.Get(ctx); got != "" {
		t.Fatalf("Get after Clear = %q", got)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty key: %v", err)
	}
}

func TestRedisSetEmptyIsNoOp(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	store.Set(ctx, "tok-1")
	if err := store.Set(ctx, ""); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	if got, _ := store.Get(ctx); got != "tok-1" {
		t.Fatalf("empty Set overwrote token: %q", got)
	}
}

func TestRedisWatchSeesForeignWrites(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	// A second handle on the same key, standing in for another process.
	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()
	foreign := NewRedis(other, "")

	changes := make(chan Change, 4)
	stop, err := store.Watch(ctx, func(c Change) { changes <- c })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	if err := foreign.Set(ctx, "tok-from-elsewhere"); err != nil {
		t.Fatalf("foreign Set: %v", err)
	}
	select {
	case c := <-changes:
		if !c.Present || c.Token != "tok-from-elsewhere" {
			t.Fatalf("change = %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered for foreign Set")
	}

	if err := foreign.Clear(ctx); err != nil {
		t.Fatalf("foreign Clear: %v", err)
	}
	select {
	case c := <-changes:
		if c.Present || c.Token != "" {
			t.Fatalf("change = %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered for foreign Clear")
	}
}

func TestRedisWatchStopUnsubscribes(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	changes := make(chan Change, 4)
	stop, err := store.Watch(ctx, func(c Change) { changes <- c })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	stop()
	stop() // idempotent

	store.Set(ctx, "tok-after-stop")
	select {
	case c := <-changes:
		t.Fatalf("stopped watcher received %+v", c)
	case <-time.After(100 * time.Millisecond):
	}
}
