package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/shared/config"
	"github.com/radieske/teer-platform-poc/internal/shared/db"
	"github.com/radieske/teer-platform-poc/internal/shared/logger"
	"github.com/radieske/teer-platform-poc/internal/shared/metrics"
	whttp "github.com/radieske/teer-platform-poc/internal/wallet-service/http"
	wrepo "github.com/radieske/teer-platform-poc/internal/wallet-service/repo"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("wallet-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "wallet-service"), zap.String("env", cfg.Env))

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	api := whttp.NewServer(log, wrepo.NewPostgres(pg))

	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)

	apiSrv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: api.Router()}
	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
