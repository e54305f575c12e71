package app

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	alertapi "visaslot/cmd/internal/alert/api"
	authapi "visaslot/cmd/internal/auth/api"
	"visaslot/cmd/internal/notify"
)

func registerHTTP(
	mux *http.ServeMux,
	log Logger,
	cfg Config,
	dbPool *pgxpool.Pool,
	redisClient *redis.Client,
	metrics *Metrics,
	gateway *notify.Gateway,
	auth *authapi.Handler,
	alerts *alertapi.Handler,
	authed func(http.Handler) http.Handler,
) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReadinessRequireDeps && (dbPool == nil || redisClient == nil) {
			http.Error(w, "backends not configured", http.StatusServiceUnavailable)
			return
		}

		if dbPool != nil {
			if err := PingDB(r.Context(), dbPool, 2*time.Second); err != nil {
				log.Info("readyz.db.not_ready", "err", err)
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := PingRedis(r.Context(), redisClient, 2*time.Second); err != nil {
				log.Info("readyz.redis.not_ready", "err", err)
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	mux.Handle("GET /metrics", metrics.Handler())

	auth.Register(mux)
	alerts.Register(mux, authed)

	mux.Handle("GET /ws", gateway)
}
