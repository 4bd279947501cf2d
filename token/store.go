// Package token owns the session bearer token: a dumb persistence slot plus
// a change-notification surface so other holders of the same slot (the
// browser-tab analog is another process sharing the backing store) can react
// to external writes. The package never validates, parses, or expires
// tokens on its own; validity is the backend's concern, surfaced through
// 401/403 responses.
package token

import "context"

// Store is the single persistence slot for the bearer token.
//
// Get returns "" when no token is stored. Set is a no-op for an empty
// token. Clear is idempotent.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Change describes an observed write to the shared token slot.
type Change struct {
	// Token is the new value, "" after a removal.
	Token string
	// Present reports whether a token exists after the change.
	Present bool
}

// Notifier delivers token-slot changes. Delivery is best-effort and
// eventually consistent: a short disagreement window between observers is
// part of the contract.
type Notifier interface {
	// Watch invokes fn for every observed change until stop is called or
	// ctx is cancelled. fn runs on the notifier's goroutine and must not
	// block for long.
	Watch(ctx context.Context, fn func(Change)) (stop func(), err error)
}
