package fluuyo

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fluuyo/fluuyo-go/api"
	"github.com/fluuyo/fluuyo-go/token"
	"github.com/fluuyo/fluuyo-go/transport"
)

// Builder assembles a [Client]. Construction is allocation-only; no I/O
// happens until [Client.Start].
type Builder struct {
	config     Config
	logger     *zerolog.Logger
	httpClient *http.Client
	store      token.Store
	notifier   token.Notifier
	redis      redis.UniversalClient

	built bool
}

// New returns a Builder preloaded with defaults.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the configuration wholesale; zero fields keep their
// defaults.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg.withDefaults()
	return b
}

// WithLogger injects the logger; otherwise [NewLogger] builds one from
// Config.Log.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithHTTPClient injects the underlying *http.Client (proxies, test
// transports). Per-request deadlines still come from contexts.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithTokenStore injects a token store, overriding redis/memory selection.
func (b *Builder) WithTokenStore(store token.Store) *Builder {
	b.store = store
	return b
}

// WithTokenNotifier injects the external-change subscription explicitly.
// Without it, a store that also implements [token.Notifier] is watched
// directly.
func (b *Builder) WithTokenNotifier(notifier token.Notifier) *Builder {
	b.notifier = notifier
	return b
}

// WithRedis shares an existing redis client for the token slot instead of
// dialing Config.Token.RedisAddr.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// Build validates the configuration and wires the client. The returned
// client is in the booting state until [Client.Start] completes its first
// restore attempt.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true

	cfg := b.config.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var logger zerolog.Logger
	if b.logger != nil {
		logger = *b.logger
	} else {
		logger = NewLogger(cfg.Log.Environment)
	}

	store := b.store
	if store == nil {
		switch {
		case b.redis != nil:
			store = token.NewRedis(b.redis, cfg.Token.Key)
		case cfg.Token.RedisAddr != "":
			store = token.NewRedis(redis.NewClient(&redis.Options{
				Addr:     cfg.Token.RedisAddr,
				Password: cfg.Token.RedisPassword,
				DB:       cfg.Token.RedisDB,
			}), cfg.Token.Key)
		default:
			store = token.NewMemory()
		}
	}

	notifier := b.notifier
	if notifier == nil {
		if n, ok := store.(token.Notifier); ok {
			notifier = n
		}
	}

	httpTransport := transport.New(transport.Config{
		BaseURL:         cfg.API.BaseURL,
		HTTPClient:      b.httpClient,
		Tokens:          store.Get,
		Logger:          logger.With().Str("component", "transport").Logger(),
		RequestTimeout:  cfg.API.RequestTimeout,
		DownloadTimeout: cfg.API.DownloadTimeout,
	})

	client := &Client{
		cfg:      cfg,
		log:      logger,
		api:      api.New(httpTransport),
		tokens:   store,
		notifier: notifier,
		routes:   DefaultRoutes(),
		booting:  true,
	}

	// Registered for the client's lifetime; Close deregisters.
	httpTransport.SetUnauthorizedHandler(client.handleUnauthorized)

	return client, nil
}
