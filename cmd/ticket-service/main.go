package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/shared/config"
	"github.com/radieske/teer-platform-poc/internal/shared/db"
	"github.com/radieske/teer-platform-poc/internal/shared/kafka"
	"github.com/radieske/teer-platform-poc/internal/shared/logger"
	"github.com/radieske/teer-platform-poc/internal/shared/metrics"
	thttp "github.com/radieske/teer-platform-poc/internal/ticket-service/http"
	"github.com/radieske/teer-platform-poc/internal/ticket-service/producer"
	trepo "github.com/radieske/teer-platform-poc/internal/ticket-service/repo"
	"github.com/radieske/teer-platform-poc/internal/ticket-service/wallet"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("ticket-service", cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "ticket-service"), zap.String("env", cfg.Env))

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTicketPlaced)
	defer writer.Close()

	srv := thttp.NewServer(
		log,
		trepo.NewPostgres(pg),
		wallet.New(cfg.WalletURL),
		producer.NewKafkaPublisher(writer, cfg.TopicTicketPlaced),
		cfg.DailyLimitPaise,
	)

	// Métrica de tickets aceitos
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tickets_placed_total",
		Help: "Tickets aceitos pelo serviço",
	})
	prometheus.MustRegister(placed)
	srv.OnPlaced = placed.Inc

	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)

	apiSrv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: srv.Router()}
	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
