package token

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the redis key the token lives under when none is configured.
const DefaultKey = "fluuyo:token"

// Redis is a Store shared across processes through a redis key. Every write
// is also PUBLISHed to a companion channel, and Watch subscribes to it, so
// all holders of the slot observe each other's logins and logouts. This is
// the cross-process rendering of the browser's storage event: best-effort,
// eventually consistent.
type Redis struct {
	client  redis.UniversalClient
	key     string
	channel string
}

// NewRedis builds a redis-backed store under key ("" uses DefaultKey).
// Change notifications travel on the "<key>:changes" channel.
func NewRedis(client redis.UniversalClient, key string) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{
		client:  client,
		key:     key,
		channel: key + ":changes",
	}
}

// Get returns the stored token or "".
func (r *Redis) Get(ctx context.Context) (string, error) {
	value, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores token without expiry and announces the change. Empty tokens
// are ignored.
func (r *Redis) Set(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, token).Err()
}

// Clear removes the token and announces the removal.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, "").Err()
}

// Watch subscribes to the change channel and forwards messages as Changes
// until stop is called or ctx is cancelled.
func (r *Redis) Watch(ctx context.Context, fn func(Change)) (func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pubsub := r.client.Subscribe(ctx, r.channel)
	// Force the SUBSCRIBE round trip so a failed connection surfaces here
	// instead of as a silently dead watcher.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	var once sync.Once
	stop := func() {
		once.Do(func() { _ = pubsub.Close() })
	}

	go func() {
		defer stop()
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn(Change{Token: msg.Payload, Present: msg.Payload != ""})
			case <-ctx.Done():
				return
			}
		}
	}()
	return stop, nil
}
