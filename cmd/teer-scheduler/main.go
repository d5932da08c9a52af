package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/radieske/teer-platform-poc/internal/shared/config"
	"github.com/radieske/teer-platform-poc/internal/shared/db"
	"github.com/radieske/teer-platform-poc/internal/shared/kafka"
	"github.com/radieske/teer-platform-poc/internal/shared/logger"
	"github.com/radieske/teer-platform-poc/internal/shared/metrics"
	"github.com/radieske/teer-platform-poc/internal/teer-scheduler/feed"
	"github.com/radieske/teer-platform-poc/internal/teer-scheduler/jobs"
	srepo "github.com/radieske/teer-platform-poc/internal/teer-scheduler/repo"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("teer-scheduler", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	resultWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultPublished)
	defer resultWriter.Close()

	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)

	j := &jobs.Jobs{
		Log:          log,
		Repo:         srepo.NewPostgres(pg),
		Feed:         feed.New(cfg.ResultsFeedURL),
		ResultWriter: resultWriter,
		StaleAfter:   6 * time.Hour,
	}

	run := func(name string, fn func(context.Context) error) func() {
		return func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := fn(ctx); err != nil {
				log.Error("job failed", zap.String("job", name), zap.Error(err))
			}
		}
	}

	c := cron.New()
	// 00:05 cria os rounds do dia; o pull de resultado roda o dia todo.
	if _, err := c.AddFunc("5 0 * * *", run("materialize", j.MaterializeToday)); err != nil {
		log.Fatal("cron materialize", zap.Error(err))
	}
	if _, err := c.AddFunc("@every 1m", run("pull-results", j.PullResults)); err != nil {
		log.Fatal("cron pull-results", zap.Error(err))
	}
	if _, err := c.AddFunc("@every 30m", run("cancel-stale", j.CancelStale)); err != nil {
		log.Fatal("cron cancel-stale", zap.Error(err))
	}

	// Garante os rounds de hoje mesmo se o processo subiu depois das 00:05.
	run("materialize", j.MaterializeToday)()

	log.Info("teer-scheduler started")
	c.Run()
}
