package fluuyo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/fluuyo/fluuyo-go/api"
	"github.com/fluuyo/fluuyo-go/token"
)

// Client is the composition root of the SDK: it owns the session state
// machine and hands out the typed API surface. Build one through [Builder],
// call [Client.Start] once, and [Client.Close] on teardown.
//
// All methods are safe for concurrent use after Build.
type Client struct {
	cfg    Config
	log    zerolog.Logger
	api    *api.Client
	tokens token.Store
	// notifier is nil when the token backend cannot observe external writes.
	notifier token.Notifier
	routes   []Route

	mu      sync.Mutex
	user    *api.User
	booting bool
	// selfToken is the token value this client is about to write, recorded
	// so the watcher can drop the notification for its own write. The
	// storage event never fires in the writing holder.
	selfToken string

	restore  singleflight.Group
	suppress atomic.Int32

	cron      *cron.Cron
	stopWatch func()
	started   atomic.Bool
	closeOnce sync.Once
}

// API exposes the typed endpoint surface sharing this client's transport
// and token slot.
func (c *Client) API() *api.Client {
	return c.api
}

// SessionState is a consistent snapshot of the session machine.
type SessionState struct {
	// User is the authenticated account record, nil while anonymous.
	User *api.User
	// Booting is true from construction until the first restore attempt
	// settles. It transitions to false exactly once.
	Booting bool
}

// Authenticated reports whether a user record is present. It is derived
// from User alone; no independent flag exists to drift from it.
func (s SessionState) Authenticated() bool {
	return s.User != nil
}

// Session returns the current snapshot.
func (c *Client) Session() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SessionState{User: c.user, Booting: c.booting}
}

// Start performs the boot restore, then begins watching the token slot and,
// when configured, the keep-alive refresh schedule. A restore failure is
// not an error: the client settles into the anonymous state and Start
// returns nil so the shell can render.
func (c *Client) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	if _, err := c.RestoreSession(ctx); err != nil {
		c.log.Debug().Err(err).Msg("boot restore failed, continuing anonymous")
		c.hardLogout(ctx)
	}
	c.finishBoot()

	if c.notifier != nil {
		stop, err := c.notifier.Watch(ctx, c.onTokenChange)
		if err != nil {
			return err
		}
		c.stopWatch = stop
	}
	return c.startRefresher()
}

// Close stops the token watcher and the refresher and deregisters the
// unauthorized handler. It is idempotent and nil-safe.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		if c.stopWatch != nil {
			c.stopWatch()
		}
		if c.cron != nil {
			c.cron.Stop()
		}
		c.api.Transport().SetUnauthorizedHandler(nil)
	})
}

func (c *Client) finishBoot() {
	c.mu.Lock()
	c.booting = false
	c.mu.Unlock()
}

func (c *Client) setUser(user *api.User) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
}

func (c *Client) currentUser() *api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Client) markSelfWrite(token string) {
	c.mu.Lock()
	c.selfToken = token
	c.mu.Unlock()
}

// consumeSelfWrite reports whether token matches a pending own write and
// clears the marker. Each write suppresses at most one notification.
func (c *Client) consumeSelfWrite(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != "" && token == c.selfToken {
		c.selfToken = ""
		return true
	}
	return false
}
