package fluuyo

import (
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
)

// Config assembles a [Client]. Zero values fall back to the defaults below;
// Validate is called by [Builder.Build].
type Config struct {
	API     APIConfig
	Session SessionConfig
	Token   TokenConfig
	Log     LogConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the backend and bounds each exchange.
type APIConfig struct {
	// BaseURL is the backend root, without a trailing slash.
	BaseURL string
	// RequestTimeout bounds JSON exchanges (default 15s).
	RequestTimeout time.Duration
	// DownloadTimeout bounds binary downloads (default 20s).
	DownloadTimeout time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig tunes the session controller.
type SessionConfig struct {
	// SuppressionGrace is how long the unauthorized handler stays muted
	// after a login or register call settles, covering unauthorized
	// responses from requests already in flight when the call returns.
	// Raising it only widens the race protection.
	SuppressionGrace time.Duration
	// RefreshSchedule, when non-empty, re-runs the session restore on a
	// cron schedule ("@every 5m"). Empty disables the keep-alive job.
	RefreshSchedule string
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig selects the shared token slot. When RedisAddr is empty and no
// store is injected, an in-process store is used and cross-process
// synchronization is off.
type TokenConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Key is the redis key holding the token (default token.DefaultKey).
	Key string
}

/*
====================================
LOG CONFIG
====================================
*/

// LogConfig shapes the default logger when none is injected.
type LogConfig struct {
	// Environment switches console decoration and level ("production"
	// logs at info without color, everything else at debug).
	Environment string
}

const (
	defaultBaseURL          = "http://localhost:4000"
	defaultRequestTimeout   = 15 * time.Second
	defaultDownloadTimeout  = 20 * time.Second
	defaultSuppressionGrace = 50 * time.Millisecond
)

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:         defaultBaseURL,
			RequestTimeout:  defaultRequestTimeout,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Session: SessionConfig{
			SuppressionGrace: defaultSuppressionGrace,
		},
	}
}

// withDefaults fills zero values so a partially specified Config stays valid.
func (c Config) withDefaults() Config {
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	if c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = defaultRequestTimeout
	}
	if c.API.DownloadTimeout == 0 {
		c.API.DownloadTimeout = defaultDownloadTimeout
	}
	if c.Session.SuppressionGrace == 0 {
		c.Session.SuppressionGrace = defaultSuppressionGrace
	}
	return c
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ErrInvalidBaseURL
	}
	if c.API.RequestTimeout < 0 || c.API.DownloadTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Session.SuppressionGrace < 0 {
		return ErrInvalidSuppressionGrace
	}
	if c.Session.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Session.RefreshSchedule); err != nil {
			return ErrInvalidRefreshSchedule
		}
	}
	return nil
}
