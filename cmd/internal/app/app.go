// Package app wires the visaslot server runtime: config, logging, storage
// backends, HTTP routes, and the websocket notify gateway.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"visaslot/cmd/identity"
	"visaslot/cmd/internal/alert"
	alertapi "visaslot/cmd/internal/alert/api"
	authapi "visaslot/cmd/internal/auth/api"
	"visaslot/cmd/internal/auth/session"
	"visaslot/cmd/internal/auth/token"
	"visaslot/cmd/internal/notify"
)

// Store is a small app-level lifecycle abstraction: it exists so backend
// resources can be closed gracefully on shutdown.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used when every backend is in-memory.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

type backedStore struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func (s backedStore) Close(_ context.Context) error {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// App is the server runtime: it owns HTTP wiring and backend lifecycles.
type App struct {
	cfg Config
	log Logger

	store Store

	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	hub     *notify.Hub
	gateway *notify.Gateway
	metrics *Metrics

	auth   *authapi.Handler
	alerts *alertapi.Handler
	authed func(http.Handler) http.Handler
}

// New constructs a fully wired App instance from config and logger.
//
// Backends are mode-per-dependency: an empty VISASLOT_DATABASE_URL selects
// in-memory user and alert stores, an empty VISASLOT_REDIS_ADDR selects the
// in-memory revocation store. Production runs with both configured.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := cfg.ValidateSecurityConfig(); err != nil {
		return nil, err
	}

	tokenCfg := token.DefaultConfig()
	tokenCfg.AccessSecret = []byte(cfg.AccessTokenSecret)
	tokenCfg.RefreshSecret = []byte(cfg.RefreshTokenSecret)
	if cfg.AccessTokenTTL > 0 {
		tokenCfg.AccessTTL = cfg.AccessTokenTTL
	}
	if cfg.RefreshTokenTTL > 0 {
		tokenCfg.RefreshTTL = cfg.RefreshTokenTTL
	}
	codec, err := token.NewCodec(tokenCfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	var (
		pool       *pgxpool.Pool
		users      identity.Store
		alertStore alert.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err = NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := Migrate(ctx, log, cfg.DatabaseURL); err != nil {
				pool.Close()
				return nil, err
			}
		}
		users, err = identity.NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		alertStore, err = alert.NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("db.enabled.postgres_store")
	} else {
		users = identity.NewMemoryStore()
		alertStore = alert.NewMemoryStore()
		log.Info("db.disabled.inmemory_store")
	}

	var (
		redisClient *redis.Client
		revocations session.RevocationStore
	)
	if cfg.RedisAddr != "" {
		redisClient, err = NewRedisClient(ctx, cfg)
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			return nil, err
		}
		revocations, err = session.NewRedisStore(redisClient)
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			_ = redisClient.Close()
			return nil, err
		}
		log.Info("redis.enabled.revocation_store")
	} else {
		revocations = session.NewMemoryStore()
		log.Info("redis.disabled.inmemory_revocation_store")
	}

	var store Store = nopStore{}
	if pool != nil || redisClient != nil {
		store = backedStore{pool: pool, redis: redisClient}
	}

	hub := notify.NewHub(log)
	gateway := notify.NewGateway(log, hub, cfg.WSAllowedOrigins)

	sessions := session.NewService(log, codec, users, revocations)
	alertSvc := alert.NewService(log, alertStore, hub)

	return &App{
		cfg:         cfg,
		log:         log,
		store:       store,
		dbPool:      pool,
		redisClient: redisClient,
		hub:         hub,
		gateway:     gateway,
		metrics:     NewMetrics(hub),
		auth:        authapi.NewHandler(log, cfg.MaxBodyBytes, codec, sessions),
		alerts:      alertapi.NewHandler(log, cfg.MaxBodyBytes, alertSvc, alert.NewPaginator(alertStore)),
		authed:      authapi.RequireAuth(codec),
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.redisClient, a.metrics, a.gateway, a.auth, a.alerts, a.authed)

	var handler http.Handler = mux
	handler = WithSecurityHeaders(handler)
	handler = WithCORS(handler, a.cfg, a.log)
	handler = WithMetrics(handler, a.metrics)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr,
		"db_enabled", a.dbPool != nil, "redis_enabled", a.redisClient != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
