package fluuyo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fluuyo/fluuyo-go/api"
	"github.com/fluuyo/fluuyo-go/token"
	"github.com/fluuyo/fluuyo-go/transport"
)

// RestoreSession resolves "who am I" from the stored token. Concurrent
// callers coalesce into a single /me request and all observe the same user
// or the same failure. A missing token is not an error: the session settles
// into the anonymous state and (nil, nil) is returned. A token whose JWT
// expiry is already past is cleared without a round trip.
func (c *Client) RestoreSession(ctx context.Context) (*api.User, error) {
	v, err, _ := c.restore.Do("restore", func() (any, error) {
		tok, err := c.tokens.Get(ctx)
		if err != nil {
			return nil, err
		}
		if tok == "" {
			c.setUser(nil)
			return (*api.User)(nil), nil
		}
		if token.Expired(tok, time.Now()) {
			c.log.Debug().Msg("stored token already expired, dropping session")
			c.hardLogout(ctx)
			return (*api.User)(nil), nil
		}
		user, err := c.api.Me(ctx)
		if err != nil {
			return nil, err
		}
		c.setUser(user)
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	user, _ := v.(*api.User)
	return user, nil
}

// Login authenticates and establishes the session: the token is persisted
// first, then the user record, so no reader can observe a user without a
// backing token. An unverified email fails with [ErrEmailNotVerified]
// before anything is persisted. Other backend failures propagate verbatim
// as transport errors.
//
// The unauthorized handler is suppressed for the duration of the call plus
// a short grace, so a 401 from an unrelated in-flight request cannot tear
// down the session that is being established.
func (c *Client) Login(ctx context.Context, email, password string) (*api.User, error) {
	c.suppress.Add(1)
	defer c.releaseSuppressionLater()

	resp, err := c.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		if isEmailNotVerified(err) {
			// Wrapped, not replaced: errors.Is matches the sentinel and
			// the backend's message stays reachable for display.
			return nil, fmt.Errorf("%w: %w", ErrEmailNotVerified, err)
		}
		return nil, err
	}
	if !resp.User.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	// Marked before the write so the token watcher, which may fire
	// synchronously from Set, drops the notification for this client's
	// own write instead of treating it as a foreign login.
	c.markSelfWrite(resp.Token)
	if err := c.tokens.Set(ctx, resp.Token); err != nil {
		c.markSelfWrite("")
		return nil, err
	}
	user := resp.User
	c.setUser(&user)
	c.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session established")
	return &user, nil
}

// Register creates an account under the same suppression discipline as
// Login. It never stores session material: verification happens over email
// before the first login is possible.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) error {
	c.suppress.Add(1)
	defer c.releaseSuppressionLater()
	return c.api.Register(ctx, req)
}

// Logout drops the session: token first, then user. It is idempotent and
// performs no network calls.
func (c *Client) Logout(ctx context.Context) {
	c.hardLogout(ctx)
	c.log.Info().Msg("session closed")
}

// hardLogout clears token then user unconditionally. A failing token
// backend is logged but never blocks the state transition.
func (c *Client) hardLogout(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("token clear failed")
	}
	c.setUser(nil)
}

// handleUnauthorized reacts to any authenticated request reporting 401/403.
// It is a pure state update with no assumption about which screen, if any,
// triggered it.
func (c *Client) handleUnauthorized(ev transport.Unauthorized) {
	if c.suppress.Load() > 0 {
		c.log.Debug().Int("status", ev.Status).Msg("unauthorized response suppressed during login window")
		return
	}
	c.log.Info().Int("status", ev.Status).Msg("backend reported unauthorized, dropping session")
	c.hardLogout(context.Background())
}

// releaseSuppressionLater keeps the unauthorized handler muted for a short
// grace after the login/register call settles. Unauthorized responses from
// requests that were already in flight during the call can land after it
// returns; clearing the flag on a deferred tick keeps them covered. This is
// a deliberate same-turn race guard, not a leak: the counter always comes
// back down.
func (c *Client) releaseSuppressionLater() {
	time.AfterFunc(c.cfg.Session.SuppressionGrace, func() {
		c.suppress.Add(-1)
	})
}

// onTokenChange reacts to writes observed on the shared token slot. A
// notification for a token this client wrote itself is dropped: the slot
// backends echo every write back to all watchers, including the writer,
// and reacting to the echo mid-login would restore against a user that is
// not set yet. Removal means some other holder logged out: drop the local
// user without a network call, the token is already gone. An appearing
// token while locally anonymous is a login elsewhere: restore, and on
// failure drop everything rather than keeping a half-set state.
func (c *Client) onTokenChange(change token.Change) {
	if change.Present && c.consumeSelfWrite(change.Token) {
		return
	}
	if !change.Present {
		c.setUser(nil)
		return
	}
	if c.currentUser() != nil {
		return
	}
	if _, err := c.RestoreSession(context.Background()); err != nil {
		c.log.Debug().Err(err).Msg("restore after external token change failed")
		c.hardLogout(context.Background())
	}
}

func isEmailNotVerified(err error) bool {
	var re *transport.RequestError
	return errors.As(err, &re) && re.Code == api.ErrorCodeEmailNotVerified
}
