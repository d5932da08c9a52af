package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	rcache "github.com/radieske/teer-platform-poc/internal/round-service/cache"
	rhttp "github.com/radieske/teer-platform-poc/internal/round-service/http"
	rrepo "github.com/radieske/teer-platform-poc/internal/round-service/repo"
	"github.com/radieske/teer-platform-poc/internal/round-service/ws"
	"github.com/radieske/teer-platform-poc/internal/shared/cache"
	"github.com/radieske/teer-platform-poc/internal/shared/config"
	"github.com/radieske/teer-platform-poc/internal/shared/db"
	"github.com/radieske/teer-platform-poc/internal/shared/logger"
	"github.com/radieske/teer-platform-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("round-service", cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "round-service"), zap.String("env", cfg.Env))

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// Hub WebSocket alimentado pelo canal Redis onde o result-worker
	// publica os números sorteados.
	hub := ws.NewHub(func(r *http.Request) bool { return true })

	// Métrica de conexões WS ativas no feed de resultados
	wsConnections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "round_ws_connections",
		Help: "Clientes WebSocket conectados ao feed de resultados",
	})
	prometheus.MustRegister(wsConnections)
	hub.OnConnect = wsConnections.Inc
	hub.OnDisconnect = wsConnections.Dec

	// O subscriber invalida o cache de rounds da banca a cada resultado,
	// pro feed REST refletir o fechamento sem esperar o TTL.
	roundsCache := rcache.New(redisClient)
	ws.StartRedisSubscriber(context.Background(), log, redisClient, cfg.RedisPubSubChannel, roundsCache, hub)

	api := &rhttp.API{
		ReadRepo: &rrepo.ReadRepo{DB: pg},
		Cache:    roundsCache,
		Hub:      hub,
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: api.Router()}
	log.Info("api listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
